package mysql

import (
	"context"

	"gorm.io/gorm"

	activityDomain "loanguard-backend/internal/domain/activity"
)

type ActivityRepository struct{ db *gorm.DB }

func NewActivityRepository(db *gorm.DB) *ActivityRepository { return &ActivityRepository{db: db} }

func (r *ActivityRepository) Create(ctx context.Context, rec *activityDomain.Record) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *ActivityRepository) ListByOwner(ctx context.Context, ownerID string) ([]activityDomain.Record, error) {
	var out []activityDomain.Record
	res := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *ActivityRepository) ListAll(ctx context.Context) ([]activityDomain.Record, error) {
	var out []activityDomain.Record
	res := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&out)
	return out, res.Error
}
