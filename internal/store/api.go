package store

import (
	"context"

	"userdash/internal/directory"
)

// API is the slice of the directory client the stores depend on.
// *directory.Client satisfies it; tests substitute fakes.
type API interface {
	List(ctx context.Context, page int) (directory.Page, error)
	Get(ctx context.Context, id int) (directory.User, error)
	Create(ctx context.Context, draft directory.Draft) (directory.User, error)
	Update(ctx context.Context, id int, draft directory.Draft) (directory.User, error)
	Delete(ctx context.Context, id int) error
}
