package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"strings"
	"testing"

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
	uc "loanguard-backend/internal/usecase/payment"
)

var testLoanID = strings.Repeat("d", 32)

func paymentFixture(t *testing.T) (*PaymentHandler, map[string]*domain.Payment) {
	t.Helper()
	store := map[string]*domain.Payment{}
	payRepo := &paymentmock.Repo{
		CreateFn: func(_ context.Context, p *domain.Payment) error {
			cp := *p
			store[p.PaymentID] = &cp
			return nil
		},
		GetByPaymentIDFn: func(_ context.Context, id string) (*domain.Payment, error) {
			if p, ok := store[id]; ok {
				cp := *p
				return &cp, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
		UpdateStatusFn: func(_ context.Context, id string, s domain.Status) error {
			p, ok := store[id]
			if !ok {
				return domain.ErrNotFound
			}
			p.Status = s
			return nil
		},
		ListByLoanIDFn: func(_ context.Context, id string) ([]domain.Payment, error) {
			var out []domain.Payment
			for _, p := range store {
				if p.LoanID == id {
					out = append(out, *p)
				}
			}
			return out, nil
		},
	}
	loanRepo := &loanmock.Repo{
		GetByLoanIDFn: func(_ context.Context, id string) (*loanDomain.Loan, error) {
			if id == testLoanID {
				return &loanDomain.Loan{LoanID: testLoanID, OwnerIdentity: alice.ID, Status: loanDomain.StatusActive}, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}
	acts := &activitymock.Repo{CreateFn: func(context.Context, *activityDomain.Record) error { return nil }}
	unit := uowmock.Passthrough(uow.Repos{Loans: loanRepo, Payments: payRepo, Activities: acts})
	az := authz.NewEvaluator(authzmock.Admins(mala.ID), &authzmock.LoanOwners{Owners: map[string]string{testLoanID: alice.ID}})
	return NewPaymentHandler(uc.NewUsecase(payRepo, unit, az)), store
}

func TestRecordPayment_AdminSuccess(t *testing.T) {
	e := newEchoWithValidator()
	h, store := paymentFixture(t)

	body := mustJSON(t, map[string]any{
		"loan_id": testLoanID,
		"amount":  933.33,
		"method":  "bank_transfer",
		"paid_at": "2026-08-01",
	})
	c, rec := newCtx(e, mala, stdhttp.MethodPost, "/payments", body)
	if err := h.RecordPayment(c); err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d, want 201, body=%s", rec.Code, rec.Body.String())
	}
	var got uc.PaymentDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if store[got.PaymentID] == nil {
		t.Fatal("payment not persisted")
	}
}

func TestRecordPayment_OwnerForbidden(t *testing.T) {
	e := newEchoWithValidator()
	h, _ := paymentFixture(t)

	body := mustJSON(t, map[string]any{
		"loan_id": testLoanID,
		"amount":  100,
		"method":  "cash",
		"paid_at": "2026-08-01",
	})
	c, rec := newCtx(e, alice, stdhttp.MethodPost, "/payments", body)
	if err := h.RecordPayment(c); err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	if rec.Code != stdhttp.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestRecordPayment_ValidationFails(t *testing.T) {
	e := newEchoWithValidator()
	h, _ := paymentFixture(t)

	// sub-cent amount, bad method, naive timestamp format
	body := mustJSON(t, map[string]any{
		"loan_id": testLoanID,
		"amount":  10.999,
		"method":  "barter",
		"paid_at": "01-08-2026",
	})
	c, rec := newCtx(e, mala, stdhttp.MethodPost, "/payments", body)
	if err := h.RecordPayment(c); err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if len(resp.Details) < 3 {
		t.Fatalf("expected three field errors, got %+v", resp.Details)
	}
}

func TestUpdatePaymentStatus(t *testing.T) {
	e := newEchoWithValidator()
	h, store := paymentFixture(t)
	paymentID := strings.Repeat("e", 32)
	store[paymentID] = &domain.Payment{PaymentID: paymentID, LoanID: testLoanID, Status: domain.StatusPending}

	body := mustJSON(t, map[string]string{"status": "completed"})
	c, rec := newCtx(e, mala, stdhttp.MethodPost, "/payments/"+paymentID+"/status", body)
	c.SetParamNames("payment_id")
	c.SetParamValues(paymentID)
	if err := h.UpdatePaymentStatus(c); err != nil {
		t.Fatalf("UpdatePaymentStatus: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}
	if store[paymentID].Status != domain.StatusCompleted {
		t.Fatalf("payment status = %s, want completed", store[paymentID].Status)
	}
}

func TestListLoanPayments_TransitiveOwnership(t *testing.T) {
	e := newEchoWithValidator()
	h, store := paymentFixture(t)
	paymentID := strings.Repeat("f", 32)
	store[paymentID] = &domain.Payment{PaymentID: paymentID, LoanID: testLoanID, Status: domain.StatusPending}

	// the loan owner can read the schedule
	c, rec := newCtx(e, alice, stdhttp.MethodGet, "/loans/"+testLoanID+"/payments", nil)
	c.SetParamNames("loan_id")
	c.SetParamValues(testLoanID)
	if err := h.ListLoanPayments(c); err != nil {
		t.Fatalf("ListLoanPayments: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("owner status = %d, want 200", rec.Code)
	}

	// a stranger cannot tell the loan exists
	c, rec = newCtx(e, bob, stdhttp.MethodGet, "/loans/"+testLoanID+"/payments", nil)
	c.SetParamNames("loan_id")
	c.SetParamValues(testLoanID)
	if err := h.ListLoanPayments(c); err != nil {
		t.Fatalf("ListLoanPayments: %v", err)
	}
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("stranger status = %d, want 404", rec.Code)
	}
}
