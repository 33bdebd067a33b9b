package profile

import "context"

type Repository interface {
	// Create inserts atomically; a duplicate id must surface as an error,
	// never as a second row.
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id string) (*Profile, error)
	Save(ctx context.Context, p *Profile) error
	ListAll(ctx context.Context) ([]Profile, error)
}
