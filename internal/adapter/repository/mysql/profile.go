package mysql

import (
	"context"

	"gorm.io/gorm"

	profileDomain "loanguard-backend/internal/domain/profile"
)

type ProfileRepository struct{ db *gorm.DB }

func NewProfileRepository(db *gorm.DB) *ProfileRepository { return &ProfileRepository{db: db} }

func (r *ProfileRepository) Create(ctx context.Context, p *profileDomain.Profile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProfileRepository) Save(ctx context.Context, p *profileDomain.Profile) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*profileDomain.Profile, error) {
	var out profileDomain.Profile
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *ProfileRepository) ListAll(ctx context.Context) ([]profileDomain.Profile, error) {
	var out []profileDomain.Profile
	res := r.db.WithContext(ctx).Order("created_at ASC").Find(&out)
	return out, res.Error
}
