package store

import (
	"context"
	"fmt"
	"sync"

	"userdash/internal/directory"
	"userdash/internal/logging"
)

// ListSnapshot is a point-in-time copy of the list state for rendering.
type ListSnapshot struct {
	Users      []directory.User `json:"users"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
	Status     Status           `json:"status"`
	Error      string           `json:"error,omitempty"`
}

// ListStore holds the client-side view of the directory listing: an ordered
// collection unique by id, the 1-based page cursor, and the lifecycle of the
// last request that targeted it.
//
// Remote calls run outside the lock. Each fetch takes a generation token at
// issue time; a response is applied only if its token is still the newest
// issued, so overlapping fetches settle to the most recent one.
type ListStore struct {
	api      API
	events   Events
	logger   logging.Logger
	pageSize int

	mu         sync.Mutex
	users      []directory.User
	index      map[int]int // id -> position in users
	page       int
	totalPages int
	status     Status
	errMsg     string
	gen        uint64
	subs       []chan struct{}
}

func NewListStore(api API, events Events, pageSize int, logger logging.Logger) *ListStore {
	if pageSize <= 0 {
		pageSize = 8
	}
	return &ListStore{
		api:      api,
		events:   events,
		logger:   logger.With("component", "list_store"),
		pageSize: pageSize,
		index:    make(map[int]int),
		page:     1,
		status:   StatusIdle,
	}
}

// Subscribe returns a channel that receives a signal whenever the store
// changes. Signals are coalesced; a slow reader sees at least one.
func (s *ListStore) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

// notify must not be called with s.mu held by the same goroutine twice;
// callers hold the lock, sends are non-blocking.
func (s *ListStore) notify() {
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Snapshot returns a copy of the current state.
func (s *ListStore) Snapshot() ListSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]directory.User, len(s.users))
	copy(users, s.users)

	return ListSnapshot{
		Users:      users,
		Page:       s.page,
		TotalPages: s.totalPages,
		Status:     s.status,
		Error:      s.errMsg,
	}
}

// SetPage moves the page cursor without fetching. The view layer observes
// the change and triggers LoadPage.
func (s *ListStore) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	s.mu.Lock()
	s.page = n
	s.notify()
	s.mu.Unlock()
}

// LoadPage fetches page n and merges the result into the collection by id,
// later occurrence winning. On failure the prior users and cursor are kept
// and only status/error change. A response that lost the race to a newer
// fetch is discarded without touching state.
func (s *ListStore) LoadPage(ctx context.Context, n int) error {
	if n < 1 {
		return fmt.Errorf("page must be >= 1, got %d", n)
	}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.status = StatusLoading
	s.notify()
	s.mu.Unlock()

	page, err := s.api.List(ctx, n)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		s.logger.Debug("discarding stale page response", "page", n)
		return nil
	}

	if err != nil {
		s.status = StatusFailed
		s.errMsg = err.Error()
		s.logger.Error("failed to load page", "page", n, "error", err)
		s.notify()
		return err
	}

	for _, u := range page.Data {
		if idx, ok := s.index[u.ID]; ok {
			s.users[idx] = u
		} else {
			s.index[u.ID] = len(s.users)
			s.users = append(s.users, u)
		}
	}

	s.page = n
	s.totalPages = page.TotalPages
	s.status = StatusSucceeded
	s.errMsg = ""
	s.notify()
	return nil
}

// CreateRemote posts the draft to the directory and appends the echoed
// record. There is no optimistic insert: a failed create adds nothing.
//
// The echo is appended verbatim even when its id already exists locally;
// that duplicate is logged rather than silently merged.
func (s *ListStore) CreateRemote(ctx context.Context, draft directory.Draft) (directory.User, error) {
	u, err := s.api.Create(ctx, draft)
	if err != nil {
		s.logger.Error("failed to create user", "error", err)
		return directory.User{}, err
	}

	s.mu.Lock()
	if _, ok := s.index[u.ID]; ok {
		s.logger.Warn("directory echoed an id that already exists locally", "id", u.ID)
	}
	s.index[u.ID] = len(s.users)
	s.users = append(s.users, u)
	s.notify()
	s.mu.Unlock()

	if err := s.events.UserCreated(ctx, u); err != nil {
		s.logger.Error("failed to publish UserCreated event", "error", err, "id", u.ID)
	}

	return u, nil
}

// UpdateRemote puts the draft and replaces the matching local record. A
// missing local id is a soft inconsistency, not an error.
func (s *ListStore) UpdateRemote(ctx context.Context, id int, draft directory.Draft) (directory.User, error) {
	u, err := s.api.Update(ctx, id, draft)
	if err != nil {
		s.logger.Error("failed to update user", "error", err, "id", id)
		return directory.User{}, err
	}

	s.mu.Lock()
	if idx, ok := s.index[u.ID]; ok {
		s.users[idx] = u
		s.notify()
	} else {
		s.logger.Warn("updated user is not in the local list", "id", u.ID)
	}
	s.mu.Unlock()

	if err := s.events.UserUpdated(ctx, u); err != nil {
		s.logger.Error("failed to publish UserUpdated event", "error", err, "id", u.ID)
	}

	return u, nil
}

// DeleteRemote deletes on the directory and removes the matching local record.
func (s *ListStore) DeleteRemote(ctx context.Context, id int) error {
	if err := s.api.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete user", "error", err, "id", id)
		return err
	}

	s.mu.Lock()
	s.removeLocked(id)
	s.notify()
	s.mu.Unlock()

	if err := s.events.UserDeleted(ctx, id); err != nil {
		s.logger.Error("failed to publish UserDeleted event", "error", err, "id", id)
	}

	return nil
}

// AddLocal inserts a fully-formed record without contacting the directory.
// A zero id gets the next local id (count+1). The returned user carries the
// id actually stored. The page count is re-derived from the new count.
func (s *ListStore) AddLocal(ctx context.Context, u directory.User) directory.User {
	s.mu.Lock()
	if u.ID == 0 {
		u.ID = len(s.users) + 1
	}
	if idx, ok := s.index[u.ID]; ok {
		s.logger.Warn("local add replaces an existing id", "id", u.ID)
		s.users[idx] = u
	} else {
		s.index[u.ID] = len(s.users)
		s.users = append(s.users, u)
	}
	s.totalPages = s.derivedTotalPages()
	s.notify()
	s.mu.Unlock()

	if err := s.events.UserAddedLocally(ctx, u); err != nil {
		s.logger.Error("failed to publish UserAddedLocally event", "error", err, "id", u.ID)
	}

	return u
}

// UpdateLocal replaces the record matching u.ID without contacting the
// directory. Unknown ids are ignored.
func (s *ListStore) UpdateLocal(ctx context.Context, u directory.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.index[u.ID]
	if !ok {
		s.logger.Warn("local update for unknown id", "id", u.ID)
		return
	}
	s.users[idx] = u
	s.notify()
}

// RemoveLocal removes one record without contacting the directory and
// re-derives the page count.
func (s *ListStore) RemoveLocal(ctx context.Context, id int) {
	s.mu.Lock()
	removed := s.removeLocked(id)
	if removed {
		s.totalPages = s.derivedTotalPages()
		s.notify()
	}
	s.mu.Unlock()

	if !removed {
		return
	}
	if err := s.events.UserRemovedLocally(ctx, id); err != nil {
		s.logger.Error("failed to publish UserRemovedLocally event", "error", err, "id", id)
	}
}

// ClearAll empties the list. Used by the reload flow before re-fetching
// page 1.
func (s *ListStore) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = nil
	s.index = make(map[int]int)
	s.totalPages = 0
	s.status = StatusIdle
	s.errMsg = ""
	s.notify()
}

// removeLocked drops the record with the given id and reindexes the tail.
// Caller holds s.mu.
func (s *ListStore) removeLocked(id int) bool {
	idx, ok := s.index[id]
	if !ok {
		return false
	}
	s.users = append(s.users[:idx], s.users[idx+1:]...)
	delete(s.index, id)
	for i := idx; i < len(s.users); i++ {
		s.index[s.users[i].ID] = i
	}
	return true
}

// derivedTotalPages is ceil(count/pageSize). Caller holds s.mu.
func (s *ListStore) derivedTotalPages() int {
	return (len(s.users) + s.pageSize - 1) / s.pageSize
}
