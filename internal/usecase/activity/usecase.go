package activity

import (
	"context"
	"time"

	"gorm.io/datatypes"

	"loanguard-backend/internal/authz"
	domain "loanguard-backend/internal/domain/activity"
	"loanguard-backend/pkg/id"
)

type Usecase struct {
	repo domain.Repository
	az   *authz.Evaluator
}

func NewUsecase(r domain.Repository, az *authz.Evaluator) *Usecase {
	return &Usecase{repo: r, az: az}
}

type LogInput struct {
	Owner       string
	Type        string
	Description string
	Amount      *float64
	Metadata    map[string]any
}

type RecordDTO struct {
	RecordID    string         `json:"record_id"`
	ActorID     string         `json:"actor_id"`
	OwnerID     string         `json:"owner_id"`
	Type        string         `json:"activity_type"`
	Description string         `json:"description"`
	Amount      *float64       `json:"amount,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

func toDTO(r *domain.Record) *RecordDTO {
	return &RecordDTO{
		RecordID: r.RecordID, ActorID: r.ActorID, OwnerID: r.Owner,
		Type: r.Type, Description: r.Description, Amount: r.Amount,
		Metadata: r.Metadata, CreatedAt: r.CreatedAt,
	}
}

// Log appends an audit entry. Self-logged entries and admin entries
// recorded on behalf of a user are both allowed; the record is append-only
// from here on.
func (u *Usecase) Log(ctx context.Context, caller authz.Identity, in LogInput) (*RecordDTO, error) {
	owner := in.Owner
	if owner == "" {
		owner = caller.ID
	}
	rec := &domain.Record{
		RecordID:    id.NewID32(),
		ActorID:     caller.ID,
		Owner:       owner,
		Type:        in.Type,
		Description: in.Description,
		Amount:      in.Amount,
		Metadata:    datatypes.JSONMap(in.Metadata),
	}
	if !u.az.Begin().CanInsert(ctx, caller, rec) {
		return nil, authz.ErrNotAuthorized
	}
	if err := u.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return toDTO(rec), nil
}

func (u *Usecase) List(ctx context.Context, caller authz.Identity) ([]RecordDTO, error) {
	if caller.IsAnonymous() {
		return nil, authz.ErrNotAuthorized
	}
	var (
		rows []domain.Record
		err  error
	)
	if u.az.Begin().IsAdmin(ctx, caller) {
		rows, err = u.repo.ListAll(ctx)
	} else {
		rows, err = u.repo.ListByOwner(ctx, caller.ID)
	}
	if err != nil {
		return nil, err
	}
	out := make([]RecordDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toDTO(&rows[i]))
	}
	return out, nil
}
