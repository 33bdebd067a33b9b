package profilemock

import (
	"context"
	"errors"

	domain "loanguard-backend/internal/domain/profile"
)

var _ domain.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("profilemock: method not implemented")

// Repo is a function-backed mock that satisfies profile.Repository.
type Repo struct {
	CreateFn  func(ctx context.Context, p *domain.Profile) error
	GetByIDFn func(ctx context.Context, id string) (*domain.Profile, error)
	SaveFn    func(ctx context.Context, p *domain.Profile) error
	ListAllFn func(ctx context.Context) ([]domain.Profile, error)
}

func (m *Repo) Create(ctx context.Context, p *domain.Profile) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, errUnimplemented
}

func (m *Repo) Save(ctx context.Context, p *domain.Profile) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, p)
	}
	return nil
}

func (m *Repo) ListAll(ctx context.Context) ([]domain.Profile, error) {
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx)
	}
	return nil, errUnimplemented
}
