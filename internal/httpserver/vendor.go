package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/apnabazaar/bazaar/internal/domain"
	"github.com/apnabazaar/bazaar/internal/service"
	"github.com/apnabazaar/bazaar/internal/transport"
	"github.com/apnabazaar/bazaar/pkg/logging"
	authmw "github.com/apnabazaar/bazaar/pkg/middleware/auth"
)

// VendorHTTP serves the vendor routes, which answer with the vendor fields
// flattened next to the token.
type VendorHTTP struct {
	Svc *service.AuthService
}

func (h *VendorHTTP) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "vendor_signup")

	var req transport.SignupRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "vendor_signup_error", err)
	}

	res, err := h.Svc.Signup(ctx, req, domain.RoleVendor)
	if err != nil {
		return fail(l, "vendor_signup_error", err)
	}

	return c.JSON(http.StatusCreated, transport.VendorAuthResponse{
		Principal: transport.FromPrincipal(res.Principal),
		Token:     res.Token,
	})
}

func (h *VendorHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "vendor_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "vendor_login_error", err)
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password, domain.RoleVendor)
	if err != nil {
		return fail(l, "vendor_login_error", err)
	}

	return c.JSON(http.StatusOK, transport.VendorAuthResponse{
		Principal: transport.FromPrincipal(res.Principal),
		Token:     res.Token,
	})
}

func (h *VendorHTTP) Profile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "vendor_profile")

	p := authmw.PrincipalFrom(c)
	if p == nil {
		return fail(l, "vendor_profile_error", domain.ErrUnauthenticated)
	}

	v, err := h.Svc.VendorProfile(ctx, p.PrincipalID())
	if err != nil {
		return fail(l, "vendor_profile_error", err)
	}
	return c.JSON(http.StatusOK, transport.FromPrincipal(v))
}

func (h *VendorHTTP) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "vendor_update_profile")

	p := authmw.PrincipalFrom(c)
	if p == nil {
		return fail(l, "vendor_update_profile_error", domain.ErrUnauthenticated)
	}

	var req transport.UpdateVendorRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "vendor_update_profile_error", err)
	}

	res, err := h.Svc.UpdateVendorProfile(ctx, p.PrincipalID(), req)
	if err != nil {
		return fail(l, "vendor_update_profile_error", err)
	}

	return c.JSON(http.StatusOK, transport.VendorAuthResponse{
		Principal: transport.FromPrincipal(res.Principal),
		Token:     res.Token,
	})
}
