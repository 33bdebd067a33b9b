package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"loanguard-backend/internal/authz"
)

// Identity headers are set by the fronting identity provider after token
// verification; this service never sees credentials. Absent headers mean an
// anonymous request, which is legitimate — the policy layer denies it where
// it must.
const (
	HeaderIdentityID    = "Ax-Identity-Id"
	HeaderIdentityEmail = "Ax-Identity-Email"
)

// IdentityMiddleware attaches the verified caller to the request context.
// A malformed identity id is rejected outright rather than downgraded to
// anonymous, since it indicates a broken upstream.
func IdentityMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			rawID := strings.TrimSpace(req.Header.Get(HeaderIdentityID))
			if rawID == "" {
				return next(c)
			}
			if !reHex32.MatchString(rawID) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid " + HeaderIdentityID})
			}
			ident := authz.Identity{
				ID:    rawID,
				Email: strings.TrimSpace(req.Header.Get(HeaderIdentityEmail)),
			}
			ctx := authz.WithIdentity(req.Context(), ident)
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}
