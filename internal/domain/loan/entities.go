package loan

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"loanguard-backend/internal/authz"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

var (
	ErrNotFound          = errors.New("loan not found")
	ErrInvalidTransition = errors.New("invalid loan status transition")
	// ErrStaleStatus means a concurrent transition won the compare-and-set.
	ErrStaleStatus = errors.New("loan status changed concurrently")
	ErrConstraint  = errors.New("loan constraint violated")
)

// transitions is the one-directional status graph. rejected and completed
// are terminal; anything outside the graph is an invalid-state error, never
// silently coerced.
var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusActive},
	StatusActive:   {StatusCompleted},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusActive, StatusCompleted:
		return true
	}
	return false
}

type Loan struct {
	ID             uint64         `gorm:"primaryKey;column:id" json:"-"`
	LoanID         string         `gorm:"size:32;uniqueIndex:ux_loans_loan_id_active" json:"loan_id"`
	OwnerIdentity  string         `gorm:"size:32;column:owner_id;index:idx_loans_owner" json:"owner_id"`
	Principal      float64        `gorm:"type:decimal(18,2)" json:"principal"`
	Rate           float64        `gorm:"type:decimal(6,4)" json:"rate"`
	TermMonths     int            `gorm:"column:term_months" json:"term_months"`
	MonthlyPayment float64        `gorm:"type:decimal(18,2);column:monthly_payment" json:"monthly_payment"`
	Status         Status         `gorm:"type:enum('pending','approved','rejected','active','completed');default:'pending'" json:"status"`
	AppliedAt      time.Time      `gorm:"column:applied_at;autoCreateTime" json:"applied_at"`
	ApprovedAt     *time.Time     `gorm:"column:approved_at" json:"approved_at,omitempty"`
	DisbursedAt    *time.Time     `gorm:"column:disbursed_at" json:"disbursed_at,omitempty"`
	DueAt          *time.Time     `gorm:"column:due_at" json:"due_at,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Loan) TableName() string { return "loans" }

func (l *Loan) Collection() authz.Collection { return authz.Loans }
func (l *Loan) OwnerID() string              { return l.OwnerIdentity }
func (l *Loan) StatusValue() string          { return string(l.Status) }

// MonthlyInstallment applies the flat-rate formula: principal plus simple
// interest over the term, split evenly per month.
func MonthlyInstallment(principal, annualRate float64, termMonths int) float64 {
	if termMonths <= 0 {
		return 0
	}
	total := principal * (1 + annualRate*float64(termMonths)/12)
	return total / float64(termMonths)
}
