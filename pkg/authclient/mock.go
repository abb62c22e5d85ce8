package authclient

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/apnabazaar/bazaar/internal/domain"
	"github.com/apnabazaar/bazaar/internal/transport"
	pkg_hash "github.com/apnabazaar/bazaar/pkg/hash"
)

const (
	mockTokenPrefix = "mock-jwt-token-"
	mockPassword    = "password123"
)

type mockAccount struct {
	principal transport.Principal
	pwHash    string
}

// Mock is an in-memory Authenticator seeded with one user and one vendor.
// Emails are unique per role, as on the server.
type Mock struct {
	// Latency simulates a network round trip.
	Latency time.Duration

	mu       sync.Mutex
	accounts []*mockAccount
}

func NewMock() *Mock {
	verified := true
	m := &Mock{}
	m.seed(transport.Principal{
		ID:    "user1",
		Name:  "John Doe",
		Email: "john@example.com",
		Phone: "123-456-7890",
		Role:  domain.RoleUser,
	})
	m.seed(transport.Principal{
		ID:           "vendor1",
		Name:         "Jane Smith",
		Email:        "jane@example.com",
		Phone:        "987-654-3210",
		Role:         domain.RoleVendor,
		ShopName:     "Jane's Organic Shop",
		BusinessType: domain.BusinessFood,
		Address:      "123 Market St, New York, NY",
		IsVerified:   &verified,
	})
	return m
}

func (m *Mock) seed(p transport.Principal) {
	h, err := pkg_hash.HashPassword(mockPassword)
	if err != nil {
		panic(fmt.Sprintf("authclient: seed mock account: %v", err))
	}
	m.accounts = append(m.accounts, &mockAccount{principal: p, pwHash: h})
}

func (m *Mock) Login(ctx context.Context, email, password string, role domain.Role) (*transport.AuthResponse, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", domain.ErrValidation)
	}

	m.mu.Lock()
	acc := m.find(domain.NormalizeEmail(email), role)
	m.mu.Unlock()

	if acc == nil {
		pkg_hash.BurnCompare(password)
		return nil, domain.ErrInvalidCredentials
	}
	if !pkg_hash.CheckPassword(acc.pwHash, password) {
		return nil, domain.ErrInvalidCredentials
	}
	return &transport.AuthResponse{Token: mockTokenPrefix + acc.principal.ID, User: acc.principal}, nil
}

func (m *Mock) Signup(ctx context.Context, req transport.SignupRequest, role domain.Role) (*transport.AuthResponse, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, fmt.Errorf("role %q: %w", role, domain.ErrValidation)
	}
	if req.Name == "" || req.Email == "" || req.Phone == "" {
		return nil, fmt.Errorf("name, email and phone are required: %w", domain.ErrValidation)
	}
	if len(req.Password) < 6 || len(req.Password) > pkg_hash.MaxPasswordBytes {
		return nil, fmt.Errorf("password must be 6 to %d characters: %w", pkg_hash.MaxPasswordBytes, domain.ErrValidation)
	}
	if role == domain.RoleVendor && (req.ShopName == "" || req.Address == "" || !domain.BusinessType(req.BusinessType).Valid()) {
		return nil, fmt.Errorf("shopName, businessType and address are required: %w", domain.ErrValidation)
	}

	pwHash, err := pkg_hash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	email := domain.NormalizeEmail(req.Email)
	p := transport.Principal{
		ID:    uuid.NewString(),
		Name:  req.Name,
		Email: email,
		Phone: req.Phone,
		Role:  role,
	}
	if role == domain.RoleVendor {
		verified := false
		p.ShopName = req.ShopName
		p.BusinessType = domain.BusinessType(req.BusinessType)
		p.Address = req.Address
		p.IsVerified = &verified
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.find(email, role) != nil {
		return nil, fmt.Errorf("%s already registered as %s: %w", email, role, domain.ErrDuplicateEmail)
	}
	m.accounts = append(m.accounts, &mockAccount{principal: p, pwHash: pwHash})

	return &transport.AuthResponse{Token: mockTokenPrefix + p.ID, User: p}, nil
}

func (m *Mock) Me(ctx context.Context, token string) (*transport.Principal, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	id, ok := strings.CutPrefix(token, mockTokenPrefix)
	if !ok || id == "" {
		return nil, domain.ErrUnauthenticated
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, acc := range m.accounts {
		if acc.principal.ID == id {
			p := acc.principal
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

// find expects m.mu held.
func (m *Mock) find(email string, role domain.Role) *mockAccount {
	for _, acc := range m.accounts {
		if acc.principal.Email == email && acc.principal.Role == role {
			return acc
		}
	}
	return nil
}

func (m *Mock) wait(ctx context.Context) error {
	if m.Latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(m.Latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
