package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	uc "loanguard-backend/internal/usecase/activity"
)

type ActivityHandler struct{ uc *uc.Usecase }

func NewActivityHandler(u *uc.Usecase) *ActivityHandler { return &ActivityHandler{uc: u} }

type logActivityReq struct {
	OwnerID     string         `json:"owner_id"      validate:"omitempty,hex32"`
	Type        string         `json:"activity_type" validate:"required,max=64"`
	Description string         `json:"description"   validate:"max=1024"`
	Amount      *float64       `json:"amount"        validate:"omitempty,gt=0,dec2"`
	Metadata    map[string]any `json:"metadata"`
}

func (h *ActivityHandler) LogActivity(c echo.Context) error {
	var req logActivityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Log(c.Request().Context(), caller(c), uc.LogInput{
		Owner:       req.OwnerID,
		Type:        req.Type,
		Description: req.Description,
		Amount:      req.Amount,
		Metadata:    req.Metadata,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *ActivityHandler) ListActivities(c echo.Context) error {
	dtos, err := h.uc.List(c.Request().Context(), caller(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}
