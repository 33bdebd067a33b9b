package payment

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"loanguard-backend/internal/authz"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

var (
	ErrNotFound   = errors.New("payment not found")
	ErrConstraint = errors.New("payment constraint violated")
)

// Payment settles against a loan. Rows are created through administrative
// insert only and are immutable once written, except for status.
type Payment struct {
	ID        uint64         `gorm:"primaryKey;column:id" json:"-"`
	PaymentID string         `gorm:"size:32;column:payment_id;uniqueIndex:ux_payments_payment_id" json:"payment_id"`
	LoanID    string         `gorm:"size:32;column:loan_id;index:idx_payments_loan" json:"loan_id"`
	Amount    float64        `gorm:"type:decimal(18,2)" json:"amount"`
	PaidAt    time.Time      `gorm:"column:paid_at" json:"paid_at"`
	Method    string         `gorm:"size:32;column:method" json:"method"`
	Status    Status         `gorm:"type:enum('pending','completed','failed');default:'pending'" json:"status"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Payment) TableName() string { return "payments" }

func (p *Payment) Collection() authz.Collection { return authz.Payments }

// OwnerID is empty: payment ownership is transitive via the referenced
// loan, resolved by the evaluator's loan-owner lookup.
func (p *Payment) OwnerID() string    { return "" }
func (p *Payment) LoanRefID() string { return p.LoanID }
