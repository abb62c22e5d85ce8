package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apnabazaar/bazaar/internal/domain"
	"github.com/apnabazaar/bazaar/internal/transport"
	"github.com/apnabazaar/bazaar/pkg/authclient"
	"github.com/apnabazaar/bazaar/pkg/storage"
)

func TestSession_StartsUnknownThenAnonymous(t *testing.T) {
	t.Parallel()

	s := New(storage.NewMemory(), authclient.NewMock())
	assert.Equal(t, Unknown, s.State())
	assert.False(t, s.IsAuthenticated())

	require.NoError(t, s.Restore(context.Background()))
	assert.Equal(t, Anonymous, s.State())
	assert.Equal(t, RouteHome, s.LandingRoute())
}

func TestSession_LoginPersistsAndRestores(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := storage.NewMemory()
	auth := authclient.NewMock()

	s := New(store, auth)
	require.NoError(t, s.Restore(ctx))

	p, err := s.Login(ctx, "jane@example.com", "password123", domain.RoleVendor)
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", p.Name)
	assert.Equal(t, Authenticated, s.State())
	assert.True(t, s.IsVendor())
	assert.Equal(t, "mock-jwt-token-vendor1", s.Token())
	assert.Equal(t, RouteVendorDashboard, s.LandingRoute())

	// a fresh session over the same storage comes back signed in
	again := New(store, auth)
	require.NoError(t, again.Restore(ctx))
	assert.Equal(t, Authenticated, again.State())
	got, ok := again.Principal()
	require.True(t, ok)
	assert.Equal(t, "jane@example.com", got.Email)

	require.NoError(t, again.Logout(ctx))
	assert.Equal(t, Anonymous, again.State())
	assert.Empty(t, again.Token())
	_, err = store.Load(ctx, storage.KeySession)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSession_FailedLogin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New(storage.NewMemory(), authclient.NewMock())

	_, err := s.Login(ctx, "john@example.com", "wrong", domain.RoleUser)
	require.Error(t, err)
	assert.Equal(t, Anonymous, s.State())
	assert.ErrorIs(t, s.Err(), domain.ErrInvalidCredentials)

	_, err = s.Login(ctx, "john@example.com", "password123", domain.RoleUser)
	require.NoError(t, err)
	assert.NoError(t, s.Err())
	assert.False(t, s.IsVendor())
	assert.Equal(t, RouteHome, s.LandingRoute())

	// a failed attempt does not sign the current principal out
	_, err = s.Login(ctx, "john@example.com", "wrong", domain.RoleUser)
	require.Error(t, err)
	assert.Equal(t, Authenticated, s.State())
}

func TestSession_Signup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New(storage.NewMemory(), authclient.NewMock())

	_, err := s.Signup(ctx, transport.SignupRequest{
		Name: "New", Email: "john@example.com", Password: "password123", Phone: "1",
	}, domain.RoleUser)
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	assert.Equal(t, Anonymous, s.State())

	p, err := s.Signup(ctx, transport.SignupRequest{
		Name: "New", Email: "new@example.com", Password: "password123", Phone: "1",
	}, domain.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, p.Role)
	assert.True(t, s.IsAuthenticated())
}

func TestSession_CorruptBlobIsDropped(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := storage.NewMemory()
	require.NoError(t, store.Save(ctx, storage.KeySession, []byte("{not json")))

	s := New(store, authclient.NewMock())
	require.NoError(t, s.Restore(ctx))
	assert.Equal(t, Anonymous, s.State())

	_, err := store.Load(ctx, storage.KeySession)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
