package profile

import (
	"errors"
	"time"

	"loanguard-backend/internal/authz"
)

var (
	ErrNotFound = errors.New("profile not found")
	// ErrConstraint covers domain-bound violations (credit score range,
	// negative loan limit) surfaced with a field-specific message.
	ErrConstraint = errors.New("profile constraint violated")
)

const (
	CreditScoreMin = 300
	CreditScoreMax = 850
)

// Profile is the account-holder row. Its primary key equals the externally
// authenticated identity id, so a profile owns itself. Never hard-deleted.
type Profile struct {
	ID          string    `gorm:"primaryKey;type:char(32);column:id" json:"id"`
	Email       string    `gorm:"size:255;column:email" json:"email"`
	DisplayName string    `gorm:"size:128;column:display_name" json:"display_name"`
	Phone       string    `gorm:"size:32;column:phone" json:"phone"`
	AvatarURL   string    `gorm:"type:text;column:avatar_url" json:"avatar_url"`
	CreditScore int       `gorm:"column:credit_score;default:0" json:"credit_score"`
	LoanLimit   float64   `gorm:"type:decimal(18,2);column:loan_limit;default:0" json:"loan_limit"`
	IsAdmin     bool      `gorm:"column:is_admin;default:false" json:"is_admin"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }

func (p *Profile) Collection() authz.Collection { return authz.Profiles }
func (p *Profile) OwnerID() string              { return p.ID }
func (p *Profile) AdminFlag() bool              { return p.IsAdmin }

// ValidateBounds checks the domain ranges that hold regardless of who is
// writing. A zero credit score means "not yet scored" and is allowed.
func (p *Profile) ValidateBounds() error {
	if p.CreditScore != 0 && (p.CreditScore < CreditScoreMin || p.CreditScore > CreditScoreMax) {
		return errors.Join(ErrConstraint, errors.New("credit_score must be within 300-850"))
	}
	if p.LoanLimit < 0 {
		return errors.Join(ErrConstraint, errors.New("loan_limit must be non-negative"))
	}
	return nil
}
