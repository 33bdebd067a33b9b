package activity

import "context"

// Repository is append-plus-read only; there is deliberately no update or
// delete.
type Repository interface {
	Create(ctx context.Context, r *Record) error
	ListByOwner(ctx context.Context, ownerID string) ([]Record, error)
	ListAll(ctx context.Context) ([]Record, error)
}
