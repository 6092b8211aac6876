package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"userdash/internal/cache"
	"userdash/internal/directory"
	"userdash/internal/logging"
)

const detailCacheTTL = 5 * time.Minute

// DetailSnapshot is a point-in-time copy of the detail state.
type DetailSnapshot struct {
	User   *directory.User `json:"user"`
	Status Status          `json:"status"`
	Error  string          `json:"error,omitempty"`
}

// DetailStore holds at most one fetched user. Its lifecycle is wholly
// independent from the list store: loading a detail never touches the list
// and vice versa.
type DetailStore struct {
	api    API
	cache  cache.DetailCache
	logger logging.Logger

	mu     sync.Mutex
	user   *directory.User
	status Status
	errMsg string
	gen    uint64
}

func NewDetailStore(api API, detailCache cache.DetailCache, logger logging.Logger) *DetailStore {
	return &DetailStore{
		api:    api,
		cache:  detailCache,
		logger: logger.With("component", "detail_store"),
		status: StatusIdle,
	}
}

// Snapshot returns a copy of the current state.
func (s *DetailStore) Snapshot() DetailSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	var u *directory.User
	if s.user != nil {
		cp := *s.user
		u = &cp
	}
	return DetailSnapshot{
		User:   u,
		Status: s.status,
		Error:  s.errMsg,
	}
}

// Load fetches a single user by id, going through the read-through cache
// first. Like the list store, overlapping loads settle to the newest one.
func (s *DetailStore) Load(ctx context.Context, id int) error {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.status = StatusLoading
	s.mu.Unlock()

	// 1) Cache, best-effort.
	if data, err := s.cache.GetByID(ctx, id); err == nil && data != nil {
		var u directory.User
		if err := json.Unmarshal(data, &u); err == nil {
			s.apply(gen, &u, nil)
			return nil
		}
		s.logger.Error("failed to unmarshal user from cache", "id", id)
	} else if err != nil {
		s.logger.Error("failed to get user from cache", "error", err, "id", id)
	}

	// 2) Directory.
	u, err := s.api.Get(ctx, id)
	if err != nil {
		s.apply(gen, nil, err)
		return err
	}

	// 3) Write back, best-effort.
	if data, err := json.Marshal(u); err == nil {
		if err := s.cache.Set(ctx, u.ID, data, detailCacheTTL); err != nil {
			s.logger.Error("failed to set user cache", "error", err, "id", u.ID)
		}
	}

	s.apply(gen, &u, nil)
	return nil
}

func (s *DetailStore) apply(gen uint64, u *directory.User, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		s.logger.Debug("discarding stale detail response")
		return
	}

	if err != nil {
		s.status = StatusFailed
		s.errMsg = err.Error()
		return
	}
	s.user = u
	s.status = StatusSucceeded
	s.errMsg = ""
}
