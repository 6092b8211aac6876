package store_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"userdash/internal/directory"
	"userdash/internal/logging"
	"userdash/internal/store"
)

// fakeAPI implements store.API with canned responses.
type fakeAPI struct {
	pages     map[int]directory.Page
	listErr   map[int]error
	created   directory.User
	createErr error
	updateErr error
	deleteErr error
}

func (f *fakeAPI) List(ctx context.Context, page int) (directory.Page, error) {
	if err := f.listErr[page]; err != nil {
		return directory.Page{}, err
	}
	p, ok := f.pages[page]
	if !ok {
		return directory.Page{}, fmt.Errorf("no such page %d", page)
	}
	return p, nil
}

func (f *fakeAPI) Get(ctx context.Context, id int) (directory.User, error) {
	return directory.User{}, directory.ErrNotFound
}

func (f *fakeAPI) Create(ctx context.Context, draft directory.Draft) (directory.User, error) {
	if f.createErr != nil {
		return directory.User{}, f.createErr
	}
	return f.created, nil
}

func (f *fakeAPI) Update(ctx context.Context, id int, draft directory.Draft) (directory.User, error) {
	if f.updateErr != nil {
		return directory.User{}, f.updateErr
	}
	return directory.User{
		ID:        id,
		FirstName: draft.FirstName,
		LastName:  draft.LastName,
		Email:     draft.Email,
		Avatar:    draft.Avatar,
	}, nil
}

func (f *fakeAPI) Delete(ctx context.Context, id int) error {
	return f.deleteErr
}

func u(id int, first string) directory.User {
	return directory.User{
		ID:        id,
		FirstName: first,
		LastName:  "Test",
		Email:     fmt.Sprintf("%s@example.com", first),
	}
}

func newListStore(api store.API) *store.ListStore {
	return store.NewListStore(api, store.NoopEvents{}, 8, logging.NewNop())
}

func TestLoadPageMergesDisjointPages(t *testing.T) {
	api := &fakeAPI{
		pages: map[int]directory.Page{
			1: {Data: []directory.User{u(1, "alice"), u(2, "bob")}, TotalPages: 2},
			2: {Data: []directory.User{u(3, "carol"), u(4, "dave")}, TotalPages: 2},
		},
	}
	s := newListStore(api)
	ctx := context.Background()

	if err := s.LoadPage(ctx, 1); err != nil {
		t.Fatalf("LoadPage(1) returned error: %v", err)
	}
	if err := s.LoadPage(ctx, 2); err != nil {
		t.Fatalf("LoadPage(2) returned error: %v", err)
	}

	snap := s.Snapshot()
	if len(snap.Users) != 4 {
		t.Fatalf("expected 4 users after merging two disjoint pages, got %d", len(snap.Users))
	}
	seen := map[int]bool{}
	for _, usr := range snap.Users {
		if seen[usr.ID] {
			t.Fatalf("duplicate id %d in merged list", usr.ID)
		}
		seen[usr.ID] = true
	}
	if snap.Page != 2 {
		t.Fatalf("expected page 2, got %d", snap.Page)
	}
	if snap.TotalPages != 2 {
		t.Fatalf("expected totalPages 2, got %d", snap.TotalPages)
	}
	if snap.Status != store.StatusSucceeded {
		t.Fatalf("expected status succeeded, got %q", snap.Status)
	}
}

func TestLoadPageRefetchIsIdempotent(t *testing.T) {
	api := &fakeAPI{
		pages: map[int]directory.Page{
			1: {Data: []directory.User{u(1, "alice"), u(2, "bob")}, TotalPages: 3},
		},
	}
	s := newListStore(api)
	ctx := context.Background()

	if err := s.LoadPage(ctx, 1); err != nil {
		t.Fatalf("first LoadPage returned error: %v", err)
	}
	before := s.Snapshot()

	if err := s.LoadPage(ctx, 1); err != nil {
		t.Fatalf("re-fetch returned error: %v", err)
	}
	after := s.Snapshot()

	if len(after.Users) != len(before.Users) {
		t.Fatalf("re-fetch changed user count: %d -> %d", len(before.Users), len(after.Users))
	}
	for i := range after.Users {
		if after.Users[i] != before.Users[i] {
			t.Fatalf("re-fetch changed user %d: %+v -> %+v", i, before.Users[i], after.Users[i])
		}
	}
	if after.TotalPages != before.TotalPages || after.Page != before.Page || after.Status != before.Status {
		t.Fatalf("re-fetch changed cursor state: %+v -> %+v", before, after)
	}
}

func TestLoadPageFailureKeepsPriorState(t *testing.T) {
	api := &fakeAPI{
		pages: map[int]directory.Page{
			1: {Data: []directory.User{u(1, "alice")}, TotalPages: 2},
		},
		listErr: map[int]error{2: errors.New("connection refused")},
	}
	s := newListStore(api)
	ctx := context.Background()

	if err := s.LoadPage(ctx, 1); err != nil {
		t.Fatalf("LoadPage(1) returned error: %v", err)
	}
	if err := s.LoadPage(ctx, 2); err == nil {
		t.Fatal("expected LoadPage(2) to fail")
	}

	snap := s.Snapshot()
	if snap.Status != store.StatusFailed {
		t.Fatalf("expected status failed, got %q", snap.Status)
	}
	if snap.Error == "" {
		t.Fatal("expected error message to be recorded")
	}
	if len(snap.Users) != 1 || snap.Users[0].ID != 1 {
		t.Fatalf("failed fetch should not touch users, got %+v", snap.Users)
	}
	if snap.Page != 1 {
		t.Fatalf("failed fetch should not move the fetched page, got %d", snap.Page)
	}
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	entered := make(chan int, 2)
	release := map[int]chan struct{}{
		1: make(chan struct{}),
		2: make(chan struct{}),
	}
	api := &gatedAPI{
		fakeAPI: fakeAPI{
			pages: map[int]directory.Page{
				1: {Data: []directory.User{u(1, "alice")}, TotalPages: 2},
				2: {Data: []directory.User{u(3, "carol")}, TotalPages: 2},
			},
		},
		entered: entered,
		release: release,
	}
	s := newListStore(api)
	ctx := context.Background()

	done1 := make(chan error, 1)
	go func() { done1 <- s.LoadPage(ctx, 1) }()
	<-entered

	done2 := make(chan error, 1)
	go func() { done2 <- s.LoadPage(ctx, 2) }()
	<-entered

	// The newer request resolves first, then the stale one arrives late.
	close(release[2])
	if err := <-done2; err != nil {
		t.Fatalf("LoadPage(2) returned error: %v", err)
	}
	close(release[1])
	if err := <-done1; err != nil {
		t.Fatalf("stale LoadPage(1) should be discarded silently, got %v", err)
	}

	snap := s.Snapshot()
	if snap.Page != 2 {
		t.Fatalf("expected latest request to win with page 2, got %d", snap.Page)
	}
	if len(snap.Users) != 1 || snap.Users[0].ID != 3 {
		t.Fatalf("stale response leaked into the list: %+v", snap.Users)
	}
	if snap.Status != store.StatusSucceeded {
		t.Fatalf("expected status succeeded, got %q", snap.Status)
	}
}

type gatedAPI struct {
	fakeAPI
	entered chan int
	release map[int]chan struct{}
}

func (g *gatedAPI) List(ctx context.Context, page int) (directory.Page, error) {
	g.entered <- page
	<-g.release[page]
	return g.fakeAPI.List(ctx, page)
}

func TestDeleteThenUpdateIsNoOp(t *testing.T) {
	api := &fakeAPI{
		pages: map[int]directory.Page{
			1: {Data: []directory.User{u(1, "alice"), u(2, "bob")}, TotalPages: 1},
		},
	}
	s := newListStore(api)
	ctx := context.Background()

	if err := s.LoadPage(ctx, 1); err != nil {
		t.Fatalf("LoadPage returned error: %v", err)
	}
	if err := s.DeleteRemote(ctx, 2); err != nil {
		t.Fatalf("DeleteRemote returned error: %v", err)
	}
	before := s.Snapshot()

	if _, err := s.UpdateRemote(ctx, 2, directory.Draft{FirstName: "robert"}); err != nil {
		t.Fatalf("UpdateRemote returned error: %v", err)
	}
	after := s.Snapshot()

	if len(after.Users) != len(before.Users) {
		t.Fatalf("update of a deleted id changed the list: %d -> %d users", len(before.Users), len(after.Users))
	}
	for i := range after.Users {
		if after.Users[i] != before.Users[i] {
			t.Fatalf("update of a deleted id changed user %d", i)
		}
	}
}

func TestUpdateRemoteReplacesRecord(t *testing.T) {
	api := &fakeAPI{
		pages: map[int]directory.Page{
			1: {Data: []directory.User{u(1, "alice")}, TotalPages: 1},
		},
	}
	s := newListStore(api)
	ctx := context.Background()

	if err := s.LoadPage(ctx, 1); err != nil {
		t.Fatalf("LoadPage returned error: %v", err)
	}

	updated, err := s.UpdateRemote(ctx, 1, directory.Draft{FirstName: "alicia", LastName: "Test", Email: "alicia@example.com"})
	if err != nil {
		t.Fatalf("UpdateRemote returned error: %v", err)
	}
	if updated.FirstName != "alicia" {
		t.Fatalf("expected echoed first name alicia, got %q", updated.FirstName)
	}

	snap := s.Snapshot()
	if len(snap.Users) != 1 || snap.Users[0].FirstName != "alicia" {
		t.Fatalf("expected local record replaced, got %+v", snap.Users)
	}
}

func TestAddLocalDerivesTotalPages(t *testing.T) {
	api := &fakeAPI{
		pages: map[int]directory.Page{
			1: {
				Data: []directory.User{
					u(1, "a"), u(2, "b"), u(3, "c"), u(4, "d"),
				},
				TotalPages: 1,
			},
		},
	}
	s := newListStore(api)
	ctx := context.Background()

	if err := s.LoadPage(ctx, 1); err != nil {
		t.Fatalf("LoadPage returned error: %v", err)
	}

	// 5th user: ceil(5/8) = 1
	s.AddLocal(ctx, u(5, "e"))
	if tp := s.Snapshot().TotalPages; tp != 1 {
		t.Fatalf("expected totalPages 1 at 5 users, got %d", tp)
	}

	// Up to 8: still one page.
	for i := 6; i <= 8; i++ {
		s.AddLocal(ctx, u(i, fmt.Sprintf("u%d", i)))
	}
	if tp := s.Snapshot().TotalPages; tp != 1 {
		t.Fatalf("expected totalPages 1 at 8 users, got %d", tp)
	}

	// The 9th spills onto a second page.
	s.AddLocal(ctx, u(9, "i"))
	if tp := s.Snapshot().TotalPages; tp != 2 {
		t.Fatalf("expected totalPages 2 at 9 users, got %d", tp)
	}
}

func TestAddLocalAssignsNextID(t *testing.T) {
	api := &fakeAPI{
		pages: map[int]directory.Page{
			1: {Data: []directory.User{u(1, "a"), u(2, "b")}, TotalPages: 1},
		},
	}
	s := newListStore(api)
	ctx := context.Background()

	if err := s.LoadPage(ctx, 1); err != nil {
		t.Fatalf("LoadPage returned error: %v", err)
	}

	added := s.AddLocal(ctx, directory.User{FirstName: "local", LastName: "Only", Email: "local@example.com"})
	if added.ID != 3 {
		t.Fatalf("expected locally assigned id 3, got %d", added.ID)
	}
}

func TestCreateRemoteAppendsEcho(t *testing.T) {
	api := &fakeAPI{
		pages: map[int]directory.Page{
			1: {Data: []directory.User{u(1, "alice")}, TotalPages: 1},
		},
		created: u(7, "grace"),
	}
	s := newListStore(api)
	ctx := context.Background()

	if err := s.LoadPage(ctx, 1); err != nil {
		t.Fatalf("LoadPage returned error: %v", err)
	}

	created, err := s.CreateRemote(ctx, directory.Draft{FirstName: "grace"})
	if err != nil {
		t.Fatalf("CreateRemote returned error: %v", err)
	}
	if created.ID != 7 {
		t.Fatalf("expected server-assigned id 7, got %d", created.ID)
	}

	snap := s.Snapshot()
	if len(snap.Users) != 2 || snap.Users[1].ID != 7 {
		t.Fatalf("expected echo appended, got %+v", snap.Users)
	}
	if snap.TotalPages != 1 {
		t.Fatalf("create must not change totalPages, got %d", snap.TotalPages)
	}
}

func TestCreateRemoteFailureInsertsNothing(t *testing.T) {
	api := &fakeAPI{
		pages: map[int]directory.Page{
			1: {Data: []directory.User{u(1, "alice")}, TotalPages: 1},
		},
		createErr: errors.New("boom"),
	}
	s := newListStore(api)
	ctx := context.Background()

	if err := s.LoadPage(ctx, 1); err != nil {
		t.Fatalf("LoadPage returned error: %v", err)
	}
	if _, err := s.CreateRemote(ctx, directory.Draft{FirstName: "grace"}); err == nil {
		t.Fatal("expected CreateRemote to fail")
	}
	if n := len(s.Snapshot().Users); n != 1 {
		t.Fatalf("failed create must not insert, got %d users", n)
	}
}

// The directory echoing an id that already exists locally is preserved as a
// visible duplicate rather than silently merged.
func TestCreateRemoteDuplicateEchoIsPreserved(t *testing.T) {
	api := &fakeAPI{
		pages: map[int]directory.Page{
			1: {Data: []directory.User{u(1, "alice")}, TotalPages: 1},
		},
		created: u(1, "alice-again"),
	}
	s := newListStore(api)
	ctx := context.Background()

	if err := s.LoadPage(ctx, 1); err != nil {
		t.Fatalf("LoadPage returned error: %v", err)
	}
	if _, err := s.CreateRemote(ctx, directory.Draft{FirstName: "alice-again"}); err != nil {
		t.Fatalf("CreateRemote returned error: %v", err)
	}
	if n := len(s.Snapshot().Users); n != 2 {
		t.Fatalf("expected duplicate echo to be appended, got %d users", n)
	}
}

func TestRemoveLocalAndClearAll(t *testing.T) {
	api := &fakeAPI{
		pages: map[int]directory.Page{
			1: {Data: []directory.User{u(1, "a"), u(2, "b"), u(3, "c")}, TotalPages: 1},
		},
	}
	s := newListStore(api)
	ctx := context.Background()

	if err := s.LoadPage(ctx, 1); err != nil {
		t.Fatalf("LoadPage returned error: %v", err)
	}

	s.RemoveLocal(ctx, 2)
	snap := s.Snapshot()
	if len(snap.Users) != 2 {
		t.Fatalf("expected 2 users after RemoveLocal, got %d", len(snap.Users))
	}
	for _, usr := range snap.Users {
		if usr.ID == 2 {
			t.Fatal("removed id still present")
		}
	}

	s.ClearAll()
	snap = s.Snapshot()
	if len(snap.Users) != 0 {
		t.Fatalf("expected empty list after ClearAll, got %d users", len(snap.Users))
	}
	if snap.Status != store.StatusIdle {
		t.Fatalf("expected idle status after ClearAll, got %q", snap.Status)
	}
}

func TestSetPageNotifiesSubscriber(t *testing.T) {
	s := newListStore(&fakeAPI{})
	ch := s.Subscribe()

	s.SetPage(3)

	select {
	case <-ch:
	default:
		t.Fatal("expected a notification after SetPage")
	}
	if p := s.Snapshot().Page; p != 3 {
		t.Fatalf("expected page 3, got %d", p)
	}
}

func TestLoadPageRejectsPageBelowOne(t *testing.T) {
	s := newListStore(&fakeAPI{})
	if err := s.LoadPage(context.Background(), 0); err == nil {
		t.Fatal("expected an error for page 0")
	}
}
