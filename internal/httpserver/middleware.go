package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	ecM "github.com/labstack/echo/v4/middleware"

	loggingmw "github.com/apnabazaar/bazaar/pkg/middleware/logging"
)

// Common is the middleware stack every route runs behind. The request
// logger comes after RequestID so it can pick the id up.
func Common(logger *slog.Logger) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		ecM.Recover(),
		ecM.RequestID(),
		ecM.Secure(),
		ecM.BodyLimit("1M"),
		loggingmw.RequestLogger(logger),
	}
}
