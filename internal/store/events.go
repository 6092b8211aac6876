package store

import (
	"context"

	"userdash/internal/directory"
)

// Events receives audit notifications for store mutations. Publishing is
// best-effort: a failing implementation never fails the mutation itself.
type Events interface {
	UserCreated(ctx context.Context, u directory.User) error
	UserUpdated(ctx context.Context, u directory.User) error
	UserDeleted(ctx context.Context, id int) error
	UserAddedLocally(ctx context.Context, u directory.User) error
	UserRemovedLocally(ctx context.Context, id int) error
}

// NoopEvents No-op implementation, useful for tests or if you don’t need events yet.
type NoopEvents struct{}

func (NoopEvents) UserCreated(ctx context.Context, u directory.User) error      { return nil }
func (NoopEvents) UserUpdated(ctx context.Context, u directory.User) error      { return nil }
func (NoopEvents) UserDeleted(ctx context.Context, id int) error                { return nil }
func (NoopEvents) UserAddedLocally(ctx context.Context, u directory.User) error { return nil }
func (NoopEvents) UserRemovedLocally(ctx context.Context, id int) error         { return nil }
