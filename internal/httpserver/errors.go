package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/apnabazaar/bazaar/internal/domain"
	"github.com/apnabazaar/bazaar/internal/transport"
)

func badBody(l *slog.Logger, event string, err error) error {
	l.Warn(event, "status", http.StatusBadRequest, "reason", "invalid body", "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, transport.ErrorBody{
		Message: "invalid request body",
		Code:    domain.CodeValidation,
	})
}

// fail renders a service error. Anything outside the taxonomy is logged and
// reported with a generic message.
func fail(l *slog.Logger, event string, err error) error {
	status := domain.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		l.Error(event, "status", status, "error", err)
		return echo.NewHTTPError(status, transport.ErrorBody{
			Message: "server error",
			Code:    domain.Code(err),
		})
	}
	return echo.NewHTTPError(status, transport.ErrorBody{
		Message: publicMessage(err),
		Code:    domain.Code(err),
	})
}

func publicMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid email or password"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return "an account with this email already exists"
	case errors.Is(err, domain.ErrNotFound):
		return "account not found"
	case errors.Is(err, domain.ErrValidation):
		msg := strings.TrimSuffix(err.Error(), ": "+domain.ErrValidation.Error())
		if msg == err.Error() || msg == "" {
			return "please provide all required fields"
		}
		return msg
	}
	return err.Error()
}
