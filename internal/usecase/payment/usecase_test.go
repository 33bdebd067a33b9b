package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"loanguard-backend/internal/authz"
	activityDomain "loanguard-backend/internal/domain/activity"
	loanDomain "loanguard-backend/internal/domain/loan"
	domain "loanguard-backend/internal/domain/payment"
	"loanguard-backend/internal/domain/uow"
	"loanguard-backend/internal/testutil/activitymock"
	"loanguard-backend/internal/testutil/authzmock"
	"loanguard-backend/internal/testutil/loanmock"
	"loanguard-backend/internal/testutil/paymentmock"
	"loanguard-backend/internal/testutil/uowmock"
)

var (
	alice  = authz.Identity{ID: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}
	bob    = authz.Identity{ID: "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"}
	mala   = authz.Identity{ID: "cccccccccccccccccccccccccccccccc"}
	loanID = "11111111111111111111111111111111"
)

func fixture(t *testing.T) (*Usecase, map[string]*domain.Payment, *[]activityDomain.Record) {
	t.Helper()
	payments := map[string]*domain.Payment{}
	var logged []activityDomain.Record

	payRepo := &paymentmock.Repo{
		CreateFn: func(_ context.Context, p *domain.Payment) error {
			cp := *p
			payments[p.PaymentID] = &cp
			return nil
		},
		GetByPaymentIDFn: func(_ context.Context, id string) (*domain.Payment, error) {
			if p, ok := payments[id]; ok {
				cp := *p
				return &cp, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
		UpdateStatusFn: func(_ context.Context, id string, s domain.Status) error {
			p, ok := payments[id]
			if !ok {
				return domain.ErrNotFound
			}
			p.Status = s
			return nil
		},
		ListByLoanIDFn: func(_ context.Context, id string) ([]domain.Payment, error) {
			var out []domain.Payment
			for _, p := range payments {
				if p.LoanID == id {
					out = append(out, *p)
				}
			}
			return out, nil
		},
	}
	loanRepo := &loanmock.Repo{
		GetByLoanIDFn: func(_ context.Context, id string) (*loanDomain.Loan, error) {
			if id == loanID {
				return &loanDomain.Loan{LoanID: loanID, OwnerIdentity: alice.ID, Status: loanDomain.StatusActive}, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}
	acts := &activitymock.Repo{CreateFn: func(_ context.Context, r *activityDomain.Record) error {
		logged = append(logged, *r)
		return nil
	}}
	unit := uowmock.Passthrough(uow.Repos{Loans: loanRepo, Payments: payRepo, Activities: acts})
	az := authz.NewEvaluator(authzmock.Admins(mala.ID), &authzmock.LoanOwners{Owners: map[string]string{loanID: alice.ID}})
	return NewUsecase(payRepo, unit, az), payments, &logged
}

func TestRecord_AdminOnly(t *testing.T) {
	uc, payments, logged := fixture(t)
	ctx := context.Background()
	in := RecordInput{LoanID: loanID, Amount: 1_100, PaidAt: time.Now().UTC(), Method: "bank_transfer"}

	// The loan owner cannot self-service a payment.
	if _, err := uc.Record(ctx, alice, in); !errors.Is(err, authz.ErrNotAuthorized) {
		t.Fatalf("owner Record err = %v, want ErrNotAuthorized", err)
	}
	if _, err := uc.Record(ctx, authz.Anonymous, in); !errors.Is(err, authz.ErrNotAuthorized) {
		t.Fatalf("anonymous Record err = %v, want ErrNotAuthorized", err)
	}

	dto, err := uc.Record(ctx, mala, in)
	if err != nil {
		t.Fatalf("admin Record: %v", err)
	}
	if dto.Status != string(domain.StatusPending) {
		t.Fatalf("status = %s", dto.Status)
	}
	if payments[dto.PaymentID] == nil {
		t.Fatal("payment not persisted")
	}
	// recorded for the loan owner, actor is the admin
	last := (*logged)[len(*logged)-1]
	if last.Type != "payment_recorded" || last.Owner != alice.ID || last.ActorID != mala.ID {
		t.Fatalf("activity = %+v", last)
	}
}

func TestRecord_RequiresExistingLoan(t *testing.T) {
	uc, _, _ := fixture(t)
	in := RecordInput{LoanID: "ffffffffffffffffffffffffffffffff", Amount: 100, PaidAt: time.Now().UTC(), Method: "cash"}
	if _, err := uc.Record(context.Background(), mala, in); !errors.Is(err, domain.ErrConstraint) {
		t.Fatalf("err = %v, want ErrConstraint", err)
	}
}

func TestRecord_AmountMustBePositive(t *testing.T) {
	uc, _, _ := fixture(t)
	in := RecordInput{LoanID: loanID, Amount: 0, Method: "cash"}
	if _, err := uc.Record(context.Background(), mala, in); !errors.Is(err, domain.ErrConstraint) {
		t.Fatalf("err = %v, want ErrConstraint", err)
	}
}

func TestUpdateStatus_AdminFlipsStatusOnly(t *testing.T) {
	uc, payments, _ := fixture(t)
	ctx := context.Background()

	dto, err := uc.Record(ctx, mala, RecordInput{LoanID: loanID, Amount: 500, PaidAt: time.Now().UTC(), Method: "card"})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, err := uc.UpdateStatus(ctx, mala, dto.PaymentID, domain.StatusCompleted)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if got.Status != string(domain.StatusCompleted) {
		t.Fatalf("status = %s", got.Status)
	}
	if payments[dto.PaymentID].Status != domain.StatusCompleted {
		t.Fatal("status not persisted")
	}

	// The loan owner cannot flip payment status either.
	if _, err := uc.UpdateStatus(ctx, alice, dto.PaymentID, domain.StatusFailed); !errors.Is(err, authz.ErrNotAuthorized) {
		t.Fatalf("owner UpdateStatus err = %v, want ErrNotAuthorized", err)
	}
}

func TestUpdateStatus_MissingRow(t *testing.T) {
	uc, _, _ := fixture(t)
	ctx := context.Background()

	// Admins see the true not-found; everyone else gets the uniform
	// rejection.
	if _, err := uc.UpdateStatus(ctx, mala, "ffffffffffffffffffffffffffffffff", domain.StatusCompleted); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("admin err = %v, want ErrNotFound", err)
	}
	if _, err := uc.UpdateStatus(ctx, bob, "ffffffffffffffffffffffffffffffff", domain.StatusCompleted); !errors.Is(err, authz.ErrNotAuthorized) {
		t.Fatalf("non-admin err = %v, want ErrNotAuthorized", err)
	}
}

func TestListByLoan_TransitiveOwnership(t *testing.T) {
	uc, _, _ := fixture(t)
	ctx := context.Background()

	if _, err := uc.Record(ctx, mala, RecordInput{LoanID: loanID, Amount: 500, PaidAt: time.Now().UTC(), Method: "card"}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	own, err := uc.ListByLoan(ctx, alice, loanID)
	if err != nil || len(own) != 1 {
		t.Fatalf("owner list = %d (%v), want 1", len(own), err)
	}
	if _, err := uc.ListByLoan(ctx, bob, loanID); !errors.Is(err, loanDomain.ErrNotFound) {
		t.Fatalf("stranger list err = %v, want not-found", err)
	}
	adm, err := uc.ListByLoan(ctx, mala, loanID)
	if err != nil || len(adm) != 1 {
		t.Fatalf("admin list = %d (%v), want 1", len(adm), err)
	}
}
