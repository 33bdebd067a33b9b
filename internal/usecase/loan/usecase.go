package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"loanguard-backend/internal/authz"
	activityDomain "loanguard-backend/internal/domain/activity"
	domain "loanguard-backend/internal/domain/loan"
	"loanguard-backend/internal/domain/uow"
	"loanguard-backend/pkg/id"
)

type Usecase struct {
	repo         domain.Repository
	uow          uow.UnitOfWork
	az           *authz.Evaluator
	maxPrincipal float64
}

func NewUsecase(r domain.Repository, tx uow.UnitOfWork, az *authz.Evaluator, maxPrincipal float64) *Usecase {
	return &Usecase{repo: r, uow: tx, az: az, maxPrincipal: maxPrincipal}
}

type ApplyInput struct {
	Principal  float64 `json:"principal"`
	Rate       float64 `json:"rate"`
	TermMonths int     `json:"term_months"`
}

type LoanDTO struct {
	LoanID         string     `json:"loan_id"`
	OwnerID        string     `json:"owner_id"`
	Principal      float64    `json:"principal"`
	Rate           float64    `json:"rate"`
	TermMonths     int        `json:"term_months"`
	MonthlyPayment float64    `json:"monthly_payment"`
	Status         string     `json:"status"`
	AppliedAt      time.Time  `json:"applied_at"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`
	DisbursedAt    *time.Time `json:"disbursed_at,omitempty"`
}

func toDTO(l *domain.Loan) *LoanDTO {
	return &LoanDTO{
		LoanID: l.LoanID, OwnerID: l.OwnerIdentity, Principal: l.Principal,
		Rate: l.Rate, TermMonths: l.TermMonths, MonthlyPayment: l.MonthlyPayment,
		Status: string(l.Status), AppliedAt: l.AppliedAt,
		ApprovedAt: l.ApprovedAt, DisbursedAt: l.DisbursedAt,
	}
}

// Apply submits a loan application for the caller. The row is always owned
// by the caller and always starts pending; approval is a separate,
// admin-gated transition.
func (u *Usecase) Apply(ctx context.Context, caller authz.Identity, in ApplyInput) (*LoanDTO, error) {
	if caller.IsAnonymous() {
		return nil, authz.ErrNotAuthorized
	}
	if in.Principal <= 0 {
		return nil, fmt.Errorf("%w: principal must be positive", domain.ErrConstraint)
	}
	if u.maxPrincipal > 0 && in.Principal > u.maxPrincipal {
		return nil, fmt.Errorf("%w: principal exceeds maximum of %.2f", domain.ErrConstraint, u.maxPrincipal)
	}
	if in.TermMonths <= 0 {
		return nil, fmt.Errorf("%w: term_months must be positive", domain.ErrConstraint)
	}

	l := &domain.Loan{
		LoanID:         id.NewID32(),
		OwnerIdentity:  caller.ID,
		Principal:      in.Principal,
		Rate:           in.Rate,
		TermMonths:     in.TermMonths,
		MonthlyPayment: domain.MonthlyInstallment(in.Principal, in.Rate, in.TermMonths),
		Status:         domain.StatusPending,
		AppliedAt:      time.Now().UTC(),
	}
	if !u.az.Begin().CanInsert(ctx, caller, l) {
		return nil, authz.ErrNotAuthorized
	}

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		return r.Activities.Create(ctx, &activityDomain.Record{
			RecordID:    id.NewID32(),
			ActorID:     caller.ID,
			Owner:       caller.ID,
			Type:        "loan_application",
			Description: fmt.Sprintf("applied for loan %s", l.LoanID),
			Amount:      &l.Principal,
			Metadata:    datatypes.JSONMap{"loan_id": l.LoanID, "term_months": l.TermMonths},
		})
	})
	if err != nil {
		return nil, err
	}
	return toDTO(l), nil
}

// Get hides denied rows behind ErrNotFound, identically to missing ones.
func (u *Usecase) Get(ctx context.Context, caller authz.Identity, loanID string) (*LoanDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	if !u.az.Begin().CanSelect(ctx, caller, l) {
		return nil, domain.ErrNotFound
	}
	return toDTO(l), nil
}

func (u *Usecase) List(ctx context.Context, caller authz.Identity) ([]LoanDTO, error) {
	if caller.IsAnonymous() {
		return nil, authz.ErrNotAuthorized
	}
	var (
		rows []domain.Loan
		err  error
	)
	if u.az.Begin().IsAdmin(ctx, caller) {
		rows, err = u.repo.ListAll(ctx)
	} else {
		rows, err = u.repo.ListByOwner(ctx, caller.ID)
	}
	if err != nil {
		return nil, err
	}
	out := make([]LoanDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toDTO(&rows[i]))
	}
	return out, nil
}

// activityType names the audit category for a transition target.
func activityType(to domain.Status) string {
	switch to {
	case domain.StatusApproved:
		return "loan_approve"
	case domain.StatusRejected:
		return "loan_reject"
	case domain.StatusActive:
		return "loan_disburse"
	case domain.StatusCompleted:
		return "loan_complete"
	}
	return "loan_status_change"
}

// Transition moves a loan along the status graph. The row is locked for
// the transaction, the policy check sees the locked state, the graph guard
// rejects anything off-graph, and the flip itself is a compare-and-set so
// concurrent admin actions serialize.
func (u *Usecase) Transition(ctx context.Context, caller authz.Identity, loanID string, next domain.Status) (*LoanDTO, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrConstraint, next)
	}
	var out *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		proposed := *l
		proposed.Status = next
		az := u.az.Begin()
		if !az.CanUpdate(ctx, caller, l, &proposed) {
			return authz.ErrNotAuthorized
		}
		if !l.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, l.Status, next)
		}
		if err := r.Loans.UpdateStatusCAS(ctx, l.LoanID, l.Status, next); err != nil {
			return err
		}
		if err := r.Activities.Create(ctx, &activityDomain.Record{
			RecordID:    id.NewID32(),
			ActorID:     caller.ID,
			Owner:       l.OwnerIdentity,
			Type:        activityType(next),
			Description: fmt.Sprintf("loan %s: %s -> %s", l.LoanID, l.Status, next),
			Metadata:    datatypes.JSONMap{"loan_id": l.LoanID, "from": string(l.Status), "to": string(next)},
		}); err != nil {
			return err
		}
		got, err := r.Loans.GetByLoanID(ctx, l.LoanID)
		if err != nil {
			return err
		}
		out = toDTO(got)
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrStaleStatus) {
			return nil, fmt.Errorf("%w: concurrent transition", domain.ErrInvalidTransition)
		}
		// A missing loan surfaces as the same write rejection as a denied
		// one, so existence is not leaked.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, authz.ErrNotAuthorized
		}
		return nil, err
	}
	return out, nil
}
