package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	uc "loanguard-backend/internal/usecase/profile"
)

type ProfileHandler struct{ uc *uc.Usecase }

func NewProfileHandler(u *uc.Usecase) *ProfileHandler { return &ProfileHandler{uc: u} }

// EnsureProfile provisions the caller's own profile on first contact.
// POST /profiles/ensure
func (h *ProfileHandler) EnsureProfile(c echo.Context) error {
	dto, err := h.uc.EnsureProfile(c.Request().Context(), caller(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ProfileHandler) GetProfile(c echo.Context) error {
	id := c.Param("id")
	if !reHex32.MatchString(id) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid profile id"})
	}
	dto, err := h.uc.Get(c.Request().Context(), caller(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ProfileHandler) ListProfiles(c echo.Context) error {
	dtos, err := h.uc.List(c.Request().Context(), caller(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

type updateProfileReq struct {
	DisplayName *string  `json:"display_name"`
	Phone       *string  `json:"phone"`
	AvatarURL   *string  `json:"avatar_url"   validate:"omitempty,url"`
	CreditScore *int     `json:"credit_score" validate:"omitempty,gte=300,lte=850"`
	LoanLimit   *float64 `json:"loan_limit"   validate:"omitempty,gte=0,dec2"`
	IsAdmin     *bool    `json:"is_admin"`
}

func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	id := c.Param("id")
	if !reHex32.MatchString(id) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid profile id"})
	}
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Update(c.Request().Context(), caller(c), uc.UpdateInput{
		TargetID:    id,
		DisplayName: req.DisplayName,
		Phone:       req.Phone,
		AvatarURL:   req.AvatarURL,
		CreditScore: req.CreditScore,
		LoanLimit:   req.LoanLimit,
		IsAdmin:     req.IsAdmin,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
