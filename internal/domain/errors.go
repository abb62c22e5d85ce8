package domain

import (
	"errors"
	"net/http"
)

var (
	ErrUnauthenticated    = errors.New("unauthenticated")      // 401
	ErrForbidden          = errors.New("forbidden")            // 403
	ErrDuplicateEmail     = errors.New("email already in use") // 400
	ErrInvalidCredentials = errors.New("invalid credentials")  // 401
	ErrNotFound           = errors.New("not found")            // 404
	ErrValidation         = errors.New("validation")           // 400
	ErrUpstream           = errors.New("upstream failure")     // 502
)

const (
	CodeUnauthenticated    = "unauthenticated"
	CodeForbidden          = "forbidden"
	CodeDuplicateEmail     = "duplicate_email"
	CodeInvalidCredentials = "invalid_credentials"
	CodeNotFound           = "not_found"
	CodeValidation         = "validation_error"
	CodeUpstream           = "upstream_failure"
	CodeInternal           = "internal_error"
)

var kinds = []struct {
	err    error
	code   string
	status int
}{
	{ErrUnauthenticated, CodeUnauthenticated, http.StatusUnauthorized},
	{ErrForbidden, CodeForbidden, http.StatusForbidden},
	{ErrDuplicateEmail, CodeDuplicateEmail, http.StatusBadRequest},
	{ErrInvalidCredentials, CodeInvalidCredentials, http.StatusUnauthorized},
	{ErrNotFound, CodeNotFound, http.StatusNotFound},
	{ErrValidation, CodeValidation, http.StatusBadRequest},
	{ErrUpstream, CodeUpstream, http.StatusBadGateway},
}

// HTTPStatus returns the status code for the error kind wrapped by err.
// Errors outside the taxonomy are 500.
func HTTPStatus(err error) int {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.status
		}
	}
	return http.StatusInternalServerError
}

// Code returns the stable wire code for err.
func Code(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.code
		}
	}
	return CodeInternal
}

// FromCode is the inverse of Code. Unknown codes yield nil.
func FromCode(code string) error {
	for _, k := range kinds {
		if k.code == code {
			return k.err
		}
	}
	return nil
}
