package authmw

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/apnabazaar/bazaar/internal/domain"
	"github.com/apnabazaar/bazaar/internal/models"
	"github.com/apnabazaar/bazaar/internal/transport"
	"github.com/apnabazaar/bazaar/pkg/logging"
	"github.com/apnabazaar/bazaar/pkg/tokens"
)

const (
	CtxClaims    = "claims"
	CtxPrincipal = "principal"

	msgNoToken     = "not authorized, no token"
	msgTokenFailed = "not authorized, token failed"
)

type PrincipalLoader interface {
	LoadPrincipal(ctx context.Context, id uuid.UUID, role domain.Role) (models.Principal, error)
}

type Verifier interface {
	Verify(token string) (*tokens.Claims, error)
}

type Middleware struct {
	Tokens Verifier
	Loader PrincipalLoader
}

func New(tk Verifier, loader PrincipalLoader) *Middleware {
	return &Middleware{Tokens: tk, Loader: loader}
}

// RequireToken verifies the bearer token and attaches its claims. It does
// not touch the Credential Store.
func (m *Middleware) RequireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := logging.FromContext(c.Request().Context()).With("middleware", "require_token")

		raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return unauthorized(msgNoToken)
		}

		claims, err := m.Tokens.Verify(raw)
		if err != nil {
			// invalid and expired look the same from outside
			reason := "invalid"
			if errors.Is(err, tokens.ErrExpiredToken) {
				reason = "expired"
			}
			l.Warn("token_rejected", "reason", reason)
			return unauthorized(msgTokenFailed)
		}

		c.Set(CtxClaims, claims)
		return next(c)
	}
}

// RequireAuth is RequireToken followed by a principal lookup. A token whose
// principal no longer exists is rejected.
func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.RequireToken(func(c echo.Context) error {
		ctx := c.Request().Context()
		claims := ClaimsFrom(c)

		id, err := uuid.Parse(claims.Subject)
		if err != nil {
			return unauthorized(msgTokenFailed)
		}

		p, err := m.Loader.LoadPrincipal(ctx, id, claims.Role)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				logging.FromContext(ctx).Warn("principal_missing", "subject", claims.Subject, "role", claims.Role)
				return unauthorized(msgTokenFailed)
			}
			logging.FromContext(ctx).Error("principal_load_failed", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, transport.ErrorBody{
				Message: "internal error",
				Code:    domain.Code(err),
			})
		}

		c.Set(CtxPrincipal, p)
		return next(c)
	})
}

// RequireRole must run after RequireAuth. With no roles it admits any
// authenticated principal.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.String())
	}
	denied := "access denied: requires " + strings.Join(names, " or ") + " role"

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := PrincipalFrom(c)
			if p == nil {
				return unauthorized(msgNoToken)
			}
			if len(roles) == 0 {
				return next(c)
			}
			for _, r := range roles {
				if p.PrincipalRole() == r {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, transport.ErrorBody{
				Message: denied,
				Code:    domain.Code(domain.ErrForbidden),
			})
		}
	}
}

func ClaimsFrom(c echo.Context) *tokens.Claims {
	claims, _ := c.Get(CtxClaims).(*tokens.Claims)
	return claims
}

func PrincipalFrom(c echo.Context) models.Principal {
	p, _ := c.Get(CtxPrincipal).(models.Principal)
	return p
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func unauthorized(msg string) error {
	return echo.NewHTTPError(http.StatusUnauthorized, transport.ErrorBody{
		Message: msg,
		Code:    domain.Code(domain.ErrUnauthenticated),
	})
}
