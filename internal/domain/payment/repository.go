package payment

import "context"

type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByPaymentID(ctx context.Context, paymentID string) (*Payment, error)
	// UpdateStatus is the only permitted mutation on a payment row.
	UpdateStatus(ctx context.Context, paymentID string, s Status) error
	ListByLoanID(ctx context.Context, loanID string) ([]Payment, error)
}
