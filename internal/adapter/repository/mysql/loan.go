package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	loanDomain "loanguard-backend/internal/domain/loan"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	q := r.db.WithContext(ctx)
	// sqlite (tests) has no row locks; its transaction lock suffices.
	if r.db.Dialector.Name() == "mysql" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var out loanDomain.Loan
	res := q.Where("loan_id = ?", loanID).First(&out)
	return &out, res.Error
}

// UpdateStatusCAS flips the status with the expected current status in the
// WHERE, so of two concurrent transitions only one applies. Transition
// timestamps ride in the same UPDATE.
func (r *LoanRepository) UpdateStatusCAS(ctx context.Context, loanID string, from, to loanDomain.Status) error {
	now := time.Now().UTC()
	changes := map[string]any{"status": to, "updated_at": now}
	switch to {
	case loanDomain.StatusApproved:
		changes["approved_at"] = now
	case loanDomain.StatusActive:
		changes["disbursed_at"] = now
	}
	res := r.db.WithContext(ctx).
		Model(&loanDomain.Loan{}).
		Where("loan_id = ? AND status = ?", loanID, from).
		Updates(changes)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return loanDomain.ErrStaleStatus
	}
	return nil
}

func (r *LoanRepository) ListByOwner(ctx context.Context, ownerID string) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("applied_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) ListAll(ctx context.Context) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).Order("applied_at DESC, id DESC").Find(&out)
	return out, res.Error
}

// LoanOwner backs the evaluator's transitive payment-ownership lookup. It
// is a direct read and reports ok=false on absence or any store error.
func (r *LoanRepository) LoanOwner(ctx context.Context, loanID string) (string, bool) {
	var owners []string
	err := r.db.WithContext(ctx).
		Model(&loanDomain.Loan{}).
		Where("loan_id = ?", loanID).
		Limit(1).
		Pluck("owner_id", &owners).Error
	if err != nil || len(owners) == 0 {
		return "", false
	}
	return owners[0], true
}
