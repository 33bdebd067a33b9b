package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"loanguard-backend/internal/authz"
	activityDomain "loanguard-backend/internal/domain/activity"
	loanDomain "loanguard-backend/internal/domain/loan"
	paymentDomain "loanguard-backend/internal/domain/payment"
	profileDomain "loanguard-backend/internal/domain/profile"
)

// respondError maps domain errors to HTTP codes. Policy denials stay
// generic: no predicate details, and denied reads were already folded into
// not-found by the usecases.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, authz.ErrNotAuthorized):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "not authorized"})
	case errors.Is(err, loanDomain.ErrNotFound),
		errors.Is(err, profileDomain.ErrNotFound),
		errors.Is(err, paymentDomain.ErrNotFound),
		errors.Is(err, activityDomain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, loanDomain.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, loanDomain.ErrConstraint),
		errors.Is(err, profileDomain.ErrConstraint),
		errors.Is(err, paymentDomain.ErrConstraint):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

func caller(c echo.Context) authz.Identity {
	return authz.IdentityFromContext(c.Request().Context())
}
