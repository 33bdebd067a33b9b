package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the row for the enclosing transaction.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	Save(ctx context.Context, l *Loan) error
	// UpdateStatusCAS flips the status only while the row still holds the
	// expected one; reports ErrStaleStatus otherwise so two concurrent
	// transitions cannot both apply.
	UpdateStatusCAS(ctx context.Context, loanID string, from, to Status) error
	ListByOwner(ctx context.Context, ownerID string) ([]Loan, error)
	ListAll(ctx context.Context) ([]Loan, error)
	// LoanOwner is the direct-read lookup backing transitive payment
	// ownership; ok=false when the loan does not exist.
	LoanOwner(ctx context.Context, loanID string) (ownerID string, ok bool)
}
