package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/karavan-market/karavan/internal/auth"
	"github.com/karavan-market/karavan/internal/config"
	"github.com/karavan-market/karavan/internal/presentation/http/response"
	accountrepo "github.com/karavan-market/karavan/internal/repository/account"
	"github.com/karavan-market/karavan/pkg/errorbank"
)

const principalContextKey = "principal"

const bearerSchema = "Bearer "

// Authenticator verifies bearer tokens and resolves a typed principal once
// per request. The admin capability is resolved here, not in handlers.
type Authenticator struct {
	secret   string
	accounts *accountrepo.Repository
}

// NewAuthenticator wires the authentication middleware.
func NewAuthenticator(cfg config.Config, accounts *accountrepo.Repository) *Authenticator {
	return &Authenticator{
		secret:   cfg.Auth.JWTSecret,
		accounts: accounts,
	}
}

// Require rejects unauthenticated requests and stores the resolved
// principal on the echo context.
func (a *Authenticator) Require(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if !strings.HasPrefix(header, bearerSchema) {
			return response.New(c).WithError(errorbank.Unauthorized("missing bearer token")).Build()
		}

		accountID, err := auth.ParseToken(strings.TrimPrefix(header, bearerSchema), a.secret)
		if err != nil {
			return response.New(c).WithError(errorbank.Unauthorized("invalid token")).Build()
		}

		account, err := a.accounts.GetByID(c.Request().Context(), accountID)
		if err != nil {
			return response.New(c).WithError(errorbank.Unauthorized("unknown account")).Build()
		}

		c.Set(principalContextKey, auth.Principal{
			AccountID: account.ID,
			Phone:     account.Phone,
			Admin:     account.IsAdmin,
		})
		return next(c)
	}
}

// RequireAdmin rejects principals without the admin capability. Must run
// after Require.
func (a *Authenticator) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		principal, ok := PrincipalFrom(c)
		if !ok || !principal.Admin {
			return response.New(c).WithError(errorbank.Forbidden("access denied")).Build()
		}
		return next(c)
	}
}

// PrincipalFrom extracts the resolved principal from the request context.
func PrincipalFrom(c echo.Context) (auth.Principal, bool) {
	principal, ok := c.Get(principalContextKey).(auth.Principal)
	return principal, ok
}
