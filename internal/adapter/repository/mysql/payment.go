package mysql

import (
	"context"

	"gorm.io/gorm"

	paymentDomain "loanguard-backend/internal/domain/payment"
)

type PaymentRepository struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) *PaymentRepository { return &PaymentRepository{db: db} }

func (r *PaymentRepository) Create(ctx context.Context, p *paymentDomain.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) GetByPaymentID(ctx context.Context, paymentID string) (*paymentDomain.Payment, error) {
	var out paymentDomain.Payment
	res := r.db.WithContext(ctx).
		Where("payment_id = ? AND deleted_at IS NULL", paymentID).
		First(&out)
	return &out, res.Error
}

// UpdateStatus touches status only; all other payment fields are immutable
// once written.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, paymentID string, s paymentDomain.Status) error {
	res := r.db.WithContext(ctx).
		Model(&paymentDomain.Payment{}).
		Where("payment_id = ?", paymentID).
		Update("status", s)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return paymentDomain.ErrNotFound
	}
	return nil
}

func (r *PaymentRepository) ListByLoanID(ctx context.Context, loanID string) ([]paymentDomain.Payment, error) {
	var out []paymentDomain.Payment
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("paid_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}
