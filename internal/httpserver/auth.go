package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/apnabazaar/bazaar/internal/domain"
	"github.com/apnabazaar/bazaar/internal/service"
	"github.com/apnabazaar/bazaar/internal/transport"
	"github.com/apnabazaar/bazaar/pkg/logging"
	authmw "github.com/apnabazaar/bazaar/pkg/middleware/auth"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_signup")

	var req transport.SignupRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "signup_error", err)
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return fail(l, "signup_error", err)
	}

	res, err := h.Svc.Signup(ctx, req, role)
	if err != nil {
		return fail(l, "signup_error", err)
	}

	return c.JSON(http.StatusCreated, transport.AuthResponse{
		Token: res.Token,
		User:  transport.FromPrincipal(res.Principal),
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "login_error", err)
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password, domain.RoleFor(req.IsVendor))
	if err != nil {
		return fail(l, "login_error", err)
	}

	return c.JSON(http.StatusOK, transport.AuthResponse{
		Token: res.Token,
		User:  transport.FromPrincipal(res.Principal),
	})
}

// Me runs behind RequireToken only, so a deleted principal surfaces here as
// 404 rather than as a token failure.
func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_me")

	claims := authmw.ClaimsFrom(c)
	if claims == nil {
		return fail(l, "me_error", domain.ErrUnauthenticated)
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return fail(l, "me_error", domain.ErrUnauthenticated)
	}

	p, err := h.Svc.Me(ctx, id, claims.Role)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			l.Warn("me_failed", "status", http.StatusNotFound, "subject", claims.Subject)
		}
		return fail(l, "me_error", err)
	}

	return c.JSON(http.StatusOK, transport.MeResponse{User: transport.FromPrincipal(p)})
}
