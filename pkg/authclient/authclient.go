// Package authclient talks to the auth API on behalf of the storefront
// client, or stands in for it with an in-memory mock.
package authclient

import (
	"context"
	"fmt"

	"github.com/apnabazaar/bazaar/internal/domain"
	"github.com/apnabazaar/bazaar/internal/transport"
)

const (
	ModeAPI  = "api"
	ModeMock = "mock"
)

type Authenticator interface {
	Login(ctx context.Context, email, password string, role domain.Role) (*transport.AuthResponse, error)
	Signup(ctx context.Context, req transport.SignupRequest, role domain.Role) (*transport.AuthResponse, error)
	Me(ctx context.Context, token string) (*transport.Principal, error)
}

// New is the single switch between the real backend and the mock.
func New(mode, apiURL string) (Authenticator, error) {
	switch mode {
	case ModeAPI, "":
		return NewClient(apiURL), nil
	case ModeMock:
		return NewMock(), nil
	}
	return nil, fmt.Errorf("authclient: unknown mode %q", mode)
}
