package authclient

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apnabazaar/bazaar/internal/domain"
	"github.com/apnabazaar/bazaar/internal/transport"
)

func TestMock_SeededAccounts(t *testing.T) {
	t.Parallel()

	m := NewMock()
	ctx := context.Background()

	res, err := m.Login(ctx, "jane@example.com", "password123", domain.RoleVendor)
	require.NoError(t, err)
	assert.Equal(t, "mock-jwt-token-vendor1", res.Token)
	assert.Equal(t, "Jane's Organic Shop", res.User.ShopName)
	assert.True(t, res.User.IsVendor())

	// jane is a vendor, not a user
	_, err = m.Login(ctx, "jane@example.com", "password123", domain.RoleUser)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, wrong := m.Login(ctx, "john@example.com", "nope", domain.RoleUser)
	_, unknown := m.Login(ctx, "ghost@example.com", "nope", domain.RoleUser)
	assert.Equal(t, wrong, unknown)

	me, err := m.Me(ctx, "mock-jwt-token-user1")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", me.Name)

	_, err = m.Me(ctx, "something-else")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestMock_SignupPerRoleUniqueness(t *testing.T) {
	t.Parallel()

	m := NewMock()
	ctx := context.Background()
	req := transport.SignupRequest{Name: "John", Email: "John@Example.com", Password: "password123", Phone: "1"}

	_, err := m.Signup(ctx, req, domain.RoleUser)
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	req.ShopName = "John's"
	req.BusinessType = "crafts"
	req.Address = "1 Main St"
	res, err := m.Signup(ctx, req, domain.RoleVendor)
	require.NoError(t, err)
	require.NotNil(t, res.User.IsVerified)
	assert.False(t, *res.User.IsVerified)
	assert.Equal(t, "mock-jwt-token-"+res.User.ID, res.Token)

	_, err = m.Login(ctx, "john@example.com", "password123", domain.RoleVendor)
	require.NoError(t, err)

	req.Password = "123"
	_, err = m.Signup(ctx, req, domain.RoleUser)
	assert.ErrorIs(t, err, domain.ErrValidation)

	req.Password = strings.Repeat("a", 73)
	_, err = m.Signup(ctx, req, domain.RoleUser)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestMock_LatencyHonoursContext(t *testing.T) {
	t.Parallel()

	m := NewMock()
	m.Latency = time.Second
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := m.Login(ctx, "john@example.com", "password123", domain.RoleUser)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
