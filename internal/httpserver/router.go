package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/apnabazaar/bazaar/internal/domain"
	"github.com/apnabazaar/bazaar/pkg/logging"
	authmw "github.com/apnabazaar/bazaar/pkg/middleware/auth"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	AuthHandler   *AuthHTTP
	VendorHandler *VendorHTTP
	Auth          *authmw.Middleware
	DB            Pinger
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", d.ready)

	auth := e.Group("/auth")
	auth.POST("/signup", d.AuthHandler.Signup)
	auth.POST("/login", d.AuthHandler.Login)
	auth.GET("/me", d.AuthHandler.Me, d.Auth.RequireToken)

	vendor := e.Group("/vendor")
	vendor.POST("/signup", d.VendorHandler.Signup)
	vendor.POST("/login", d.VendorHandler.Login)

	profile := vendor.Group("/profile", d.Auth.RequireAuth, authmw.RequireRole(domain.RoleVendor))
	profile.GET("", d.VendorHandler.Profile)
	profile.PUT("", d.VendorHandler.UpdateProfile)
}

func (d *Deps) ready(c echo.Context) error {
	if d.DB == nil {
		return c.NoContent(http.StatusOK)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := d.DB.Ping(ctx); err != nil {
		logging.FromContext(ctx).Error("ready_check_failed", "error", err)
		return c.NoContent(http.StatusServiceUnavailable)
	}
	return c.NoContent(http.StatusOK)
}
