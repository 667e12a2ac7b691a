package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ozhegov/product-api/internal/authz"
	"github.com/ozhegov/product-api/internal/tokens"
)

const (
	CtxUsername = "username"
	CtxRole     = "role"
)

type Middleware struct {
	Issuer *tokens.Issuer
}

func New(issuer *tokens.Issuer) *Middleware {
	return &Middleware{Issuer: issuer}
}

// RequireAuth rejects requests without a verifiable bearer token. Token
// problems are a 401 and are decided before any policy check.
func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := m.Issuer.ParseAccess(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}
		if claims.Subject == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "token has no subject")
		}

		c.Set(CtxUsername, claims.Subject)
		c.Set(CtxRole, claims.Role)

		return next(c)
	}
}

// RequirePolicy gates the route on the caller's role claim. Runs after
// RequireAuth, so a missing role means the token was never checked.
func RequirePolicy(p authz.Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing role")
			}
			if !authz.Allowed(p, role) {
				return echo.NewHTTPError(http.StatusForbidden, "you don't have enough rights to see this page")
			}
			return next(c)
		}
	}
}
