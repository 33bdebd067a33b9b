package activitymock

import (
	"context"
	"errors"

	domain "loanguard-backend/internal/domain/activity"
)

var _ domain.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("activitymock: method not implemented")

// Repo is a function-backed mock that satisfies activity.Repository.
type Repo struct {
	CreateFn      func(ctx context.Context, r *domain.Record) error
	ListByOwnerFn func(ctx context.Context, ownerID string) ([]domain.Record, error)
	ListAllFn     func(ctx context.Context) ([]domain.Record, error)
}

func (m *Repo) Create(ctx context.Context, r *domain.Record) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return nil
}

func (m *Repo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Record, error) {
	if m.ListByOwnerFn != nil {
		return m.ListByOwnerFn(ctx, ownerID)
	}
	return nil, errUnimplemented
}

func (m *Repo) ListAll(ctx context.Context) ([]domain.Record, error) {
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx)
	}
	return nil, errUnimplemented
}
