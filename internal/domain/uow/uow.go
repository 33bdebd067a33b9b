package uow

import (
	"context"

	"loanguard-backend/internal/domain/activity"
	"loanguard-backend/internal/domain/loan"
	"loanguard-backend/internal/domain/payment"
	"loanguard-backend/internal/domain/profile"
)

type Repos struct {
	Profiles   profile.Repository
	Loans      loan.Repository
	Payments   payment.Repository
	Activities activity.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the loan row first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
