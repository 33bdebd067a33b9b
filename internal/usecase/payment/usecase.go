package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"loanguard-backend/internal/authz"
	activityDomain "loanguard-backend/internal/domain/activity"
	loanDomain "loanguard-backend/internal/domain/loan"
	domain "loanguard-backend/internal/domain/payment"
	"loanguard-backend/internal/domain/uow"
	"loanguard-backend/pkg/id"
)

type Usecase struct {
	repo domain.Repository
	uow  uow.UnitOfWork
	az   *authz.Evaluator
}

func NewUsecase(r domain.Repository, tx uow.UnitOfWork, az *authz.Evaluator) *Usecase {
	return &Usecase{repo: r, uow: tx, az: az}
}

type RecordInput struct {
	LoanID string    `json:"loan_id"`
	Amount float64   `json:"amount"`
	PaidAt time.Time `json:"paid_at"`
	Method string    `json:"method"`
}

type PaymentDTO struct {
	PaymentID string    `json:"payment_id"`
	LoanID    string    `json:"loan_id"`
	Amount    float64   `json:"amount"`
	PaidAt    time.Time `json:"paid_at"`
	Method    string    `json:"method"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toDTO(p *domain.Payment) *PaymentDTO {
	return &PaymentDTO{
		PaymentID: p.PaymentID, LoanID: p.LoanID, Amount: p.Amount,
		PaidAt: p.PaidAt, Method: p.Method, Status: string(p.Status),
		CreatedAt: p.CreatedAt,
	}
}

// Record inserts a settlement event. Payment creation is routed through
// administrative insert only; owners never self-service payments.
func (u *Usecase) Record(ctx context.Context, caller authz.Identity, in RecordInput) (*PaymentDTO, error) {
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrConstraint)
	}
	p := &domain.Payment{
		PaymentID: id.NewID32(),
		LoanID:    in.LoanID,
		Amount:    in.Amount,
		PaidAt:    in.PaidAt,
		Method:    in.Method,
		Status:    domain.StatusPending,
	}
	if !u.az.Begin().CanInsert(ctx, caller, p) {
		return nil, authz.ErrNotAuthorized
	}

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		// A payment must reference an existing loan; the activity entry is
		// recorded for the loan owner, not the admin acting.
		l, err := r.Loans.GetByLoanID(ctx, in.LoanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: loan %s does not exist", domain.ErrConstraint, in.LoanID)
			}
			return err
		}
		if err := r.Payments.Create(ctx, p); err != nil {
			return err
		}
		return r.Activities.Create(ctx, &activityDomain.Record{
			RecordID:    id.NewID32(),
			ActorID:     caller.ID,
			Owner:       l.OwnerIdentity,
			Type:        "payment_recorded",
			Description: fmt.Sprintf("payment %s recorded against loan %s", p.PaymentID, l.LoanID),
			Amount:      &p.Amount,
			Metadata:    datatypes.JSONMap{"payment_id": p.PaymentID, "loan_id": l.LoanID, "method": p.Method},
		})
	})
	if err != nil {
		return nil, err
	}
	return toDTO(p), nil
}

// UpdateStatus flips a payment's status; everything else on the row is
// immutable.
func (u *Usecase) UpdateStatus(ctx context.Context, caller authz.Identity, paymentID string, next domain.Status) (*PaymentDTO, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrConstraint, next)
	}
	az := u.az.Begin()
	existing, err := u.repo.GetByPaymentID(ctx, paymentID)
	if err != nil {
		// Non-admins get the uniform write rejection whether or not the
		// row exists; admins may see the real not-found.
		if az.IsAdmin(ctx, caller) {
			return nil, domain.ErrNotFound
		}
		return nil, authz.ErrNotAuthorized
	}
	proposed := *existing
	proposed.Status = next
	if !az.CanUpdate(ctx, caller, existing, &proposed) {
		return nil, authz.ErrNotAuthorized
	}
	if err := u.repo.UpdateStatus(ctx, paymentID, next); err != nil {
		return nil, err
	}
	return toDTO(&proposed), nil
}

// ListByLoan returns the payments for a loan the caller owns, or any loan
// for admins. Denied and nonexistent loans both come back as not-found.
func (u *Usecase) ListByLoan(ctx context.Context, caller authz.Identity, loanID string) ([]PaymentDTO, error) {
	probe := &domain.Payment{LoanID: loanID}
	if !u.az.Begin().CanSelect(ctx, caller, probe) {
		return nil, loanDomain.ErrNotFound
	}
	rows, err := u.repo.ListByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	out := make([]PaymentDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toDTO(&rows[i]))
	}
	return out, nil
}
