package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	paymentDomain "loanguard-backend/internal/domain/payment"
	uc "loanguard-backend/internal/usecase/payment"
)

type PaymentHandler struct{ uc *uc.Usecase }

func NewPaymentHandler(u *uc.Usecase) *PaymentHandler { return &PaymentHandler{uc: u} }

type recordPaymentReq struct {
	LoanID string  `json:"loan_id" validate:"required,hex32"`
	Amount float64 `json:"amount"  validate:"required,gt=0,dec2"`
	Method string  `json:"method"  validate:"required,oneof=bank_transfer card cash"`
	// Canonical date `YYYY-MM-DD`
	PaidAt string `json:"paid_at" validate:"required,datetime=2006-01-02"`
}

func (h *PaymentHandler) RecordPayment(c echo.Context) error {
	var req recordPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	paidAt, _ := time.Parse("2006-01-02", req.PaidAt)
	dto, err := h.uc.Record(c.Request().Context(), caller(c), uc.RecordInput{
		LoanID: req.LoanID,
		Amount: req.Amount,
		PaidAt: paidAt.UTC(),
		Method: req.Method,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type paymentStatusReq struct {
	Status string `json:"status" validate:"required,oneof=pending completed failed"`
}

func (h *PaymentHandler) UpdatePaymentStatus(c echo.Context) error {
	paymentID := c.Param("payment_id")
	if !reHex32.MatchString(paymentID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payment_id"})
	}
	var req paymentStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.UpdateStatus(c.Request().Context(), caller(c), paymentID, paymentDomain.Status(req.Status))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *PaymentHandler) ListLoanPayments(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}
	dtos, err := h.uc.ListByLoan(c.Request().Context(), caller(c), loanID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}
