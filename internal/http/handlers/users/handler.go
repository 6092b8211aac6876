package users

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"userdash/internal/directory"
	"userdash/internal/form"
	"userdash/internal/http/responses"
	"userdash/internal/logging"
	"userdash/internal/store"
)

// Handler is the view layer: it dispatches intents to the stores and
// renders store snapshots. Success and failure are both rendered from the
// snapshot's status field, never as partial data plus an error.
type Handler struct {
	list   *store.ListStore
	detail *store.DetailStore
	logger logging.Logger
}

func NewHandler(list *store.ListStore, detail *store.DetailStore, logger logging.Logger) *Handler {
	return &Handler{
		list:   list,
		detail: detail,
		logger: logger.With("component", "users_http_handler"),
	}
}

// bindJSON reads the JSON body into dst. Validation is the form's job.
func bindJSON[T any](w http.ResponseWriter, r *http.Request, dst *T) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		responses.WriteBadRequest(w, "Invalid JSON payload.")
		return false
	}
	return true
}

func userID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil && id > 0
}

// List GET /users?page=n
// Moves the cursor and loads that page, then renders the list snapshot.
// A failed load still renders 200: the snapshot carries status=failed and
// the error message while keeping the previously fetched users.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := h.list.Snapshot().Page
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			responses.WriteBadRequest(w, "invalid page")
			return
		}
		page = n
	}

	h.list.SetPage(page)
	_ = h.list.LoadPage(ctx, page)

	responses.WriteJSON(w, http.StatusOK, h.list.Snapshot())
}

// Reload POST /users/reload
// Clears the local list and re-fetches page 1.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	h.list.ClearAll()
	h.list.SetPage(1)
	_ = h.list.LoadPage(ctx, 1)

	responses.WriteJSON(w, http.StatusOK, h.list.Snapshot())
}

// Create POST /users
// Validates the draft; a blocked submission returns the field errors and
// never reaches the store.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req DraftRequest
	if !bindJSON(w, r, &req) {
		return
	}

	var submitted form.Draft
	f := form.NewCreate(func(d form.Draft, _ int) {
		submitted = d
	})
	f.SetDraft(req.toForm())
	if !f.Submit() {
		responses.WriteFieldErrors(w, f.Errors())
		return
	}

	created, err := h.list.CreateRemote(ctx, toDirectoryDraft(submitted))
	if err != nil {
		responses.WriteError(w, http.StatusBadGateway, "directory request failed")
		return
	}

	responses.WriteJSON(w, http.StatusCreated, created)
}

// Update PUT /users/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := userID(r)
	if !ok {
		responses.WriteBadRequest(w, "invalid user id")
		return
	}

	var req DraftRequest
	if !bindJSON(w, r, &req) {
		return
	}

	var submitted form.Draft
	var submittedID int
	f := form.NewEdit(id, req.toForm(), func(d form.Draft, editID int) {
		submitted = d
		submittedID = editID
	})
	if !f.Submit() {
		responses.WriteFieldErrors(w, f.Errors())
		return
	}

	updated, err := h.list.UpdateRemote(ctx, submittedID, toDirectoryDraft(submitted))
	if err != nil {
		responses.WriteError(w, http.StatusBadGateway, "directory request failed")
		return
	}

	responses.WriteJSON(w, http.StatusOK, updated)
}

// Delete DELETE /users/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := userID(r)
	if !ok {
		responses.WriteBadRequest(w, "invalid user id")
		return
	}

	if err := h.list.DeleteRemote(ctx, id); err != nil {
		responses.WriteError(w, http.StatusBadGateway, "directory request failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetByID GET /users/{id}
// Loads the detail store and renders its snapshot; the detail lifecycle is
// independent of the list.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := userID(r)
	if !ok {
		responses.WriteBadRequest(w, "invalid user id")
		return
	}

	_ = h.detail.Load(ctx, id)

	responses.WriteJSON(w, http.StatusOK, h.detail.Snapshot())
}

// AddLocal POST /users/local
// Inserts a record into the list without contacting the directory. The
// list and the directory diverge from here on; that is the intended
// behavior of the local routes.
func (h *Handler) AddLocal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LocalUserRequest
	if !bindJSON(w, r, &req) {
		return
	}

	u := h.list.AddLocal(ctx, req.toUser())
	responses.WriteJSON(w, http.StatusCreated, u)
}

// UpdateLocal PUT /users/local/{id}
func (h *Handler) UpdateLocal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := userID(r)
	if !ok {
		responses.WriteBadRequest(w, "invalid user id")
		return
	}

	var req DraftRequest
	if !bindJSON(w, r, &req) {
		return
	}

	u := directory.User{
		ID:        id,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Avatar:    req.Avatar,
	}
	h.list.UpdateLocal(ctx, u)

	responses.WriteJSON(w, http.StatusOK, u)
}

// RemoveLocal DELETE /users/local/{id}
func (h *Handler) RemoveLocal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := userID(r)
	if !ok {
		responses.WriteBadRequest(w, "invalid user id")
		return
	}

	h.list.RemoveLocal(ctx, id)
	w.WriteHeader(http.StatusNoContent)
}
