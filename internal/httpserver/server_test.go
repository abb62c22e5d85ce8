package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apnabazaar/bazaar/internal/domain"
	"github.com/apnabazaar/bazaar/internal/events"
	"github.com/apnabazaar/bazaar/internal/models"
	"github.com/apnabazaar/bazaar/internal/repo"
	"github.com/apnabazaar/bazaar/internal/service"
	"github.com/apnabazaar/bazaar/internal/testdb"
	"github.com/apnabazaar/bazaar/internal/transport"
	authmw "github.com/apnabazaar/bazaar/pkg/middleware/auth"
	"github.com/apnabazaar/bazaar/pkg/tokens"
)

type server struct {
	e    *echo.Echo
	repo *repo.GormRepo
}

func newServer(t *testing.T) *server {
	t.Helper()
	return newServerWith(t, nil)
}

// newServerWith lets wrap replace the service's store.
func newServerWith(t *testing.T, wrap func(*repo.GormRepo) service.Store) *server {
	t.Helper()

	tk, err := tokens.NewService([]byte("http-secret"), time.Hour)
	require.NoError(t, err)
	rp := repo.New(testdb.Open(t))
	var store service.Store = rp
	if wrap != nil {
		store = wrap(rp)
	}
	svc := &service.AuthService{Repo: store, Tokens: tk, Events: &events.Recorder{}}

	e := echo.New()
	Register(e, &Deps{
		AuthHandler:   &AuthHTTP{Svc: svc},
		VendorHandler: &VendorHTTP{Svc: svc},
		Auth:          authmw.New(tk, rp),
		DB:            rp,
	})
	return &server{e: e, repo: rp}
}

func (s *server) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

var john = map[string]any{
	"name":     "John Doe",
	"email":    "john@example.com",
	"password": "password123",
	"phone":    "123-456-7890",
}

var jane = map[string]any{
	"name":         "Jane Smith",
	"email":        "jane@example.com",
	"password":     "password123",
	"phone":        "987-654-3210",
	"shopName":     "Jane's Organic Shop",
	"businessType": "food",
	"address":      "123 Market St, New York, NY",
}

func TestSignupLoginMe(t *testing.T) {
	t.Parallel()

	s := newServer(t)

	rec := s.do(t, http.MethodPost, "/auth/signup", "", john)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	signup := decode[transport.AuthResponse](t, rec)
	assert.NotEmpty(t, signup.Token)
	assert.Equal(t, domain.RoleUser, signup.User.Role)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = s.do(t, http.MethodPost, "/auth/login", "", map[string]any{
		"email": "john@example.com", "password": "password123", "isVendor": false,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	login := decode[transport.AuthResponse](t, rec)
	assert.Equal(t, signup.User.ID, login.User.ID)

	rec = s.do(t, http.MethodGet, "/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[transport.MeResponse](t, rec)
	assert.Equal(t, "john@example.com", me.User.Email)
}

func TestSignup_Errors(t *testing.T) {
	t.Parallel()

	s := newServer(t)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/auth/signup", "", john).Code)

	rec := s.do(t, http.MethodPost, "/auth/signup", "", john)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, domain.CodeDuplicateEmail, decode[transport.ErrorBody](t, rec).Code)

	var count int64
	require.NoError(t, s.repo.DB.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	vendorNoShop := map[string]any{
		"name": "V", "email": "v@example.com", "password": "password123", "phone": "1", "role": "vendor",
	}
	rec = s.do(t, http.MethodPost, "/auth/signup", "", vendorNoShop)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[transport.ErrorBody](t, rec)
	assert.Equal(t, domain.CodeValidation, body.Code)
	assert.Contains(t, body.Message, "shopName is required")

	rec = s.do(t, http.MethodPost, "/auth/signup", "", map[string]any{"name": "x", "role": "admin"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	long := map[string]any{
		"name": "Long", "email": "long@example.com", "password": strings.Repeat("a", 73), "phone": "1",
	}
	rec = s.do(t, http.MethodPost, "/auth/signup", "", long)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, domain.CodeValidation, decode[transport.ErrorBody](t, rec).Code)

	long["password"] = strings.Repeat("a", 72)
	rec = s.do(t, http.MethodPost, "/auth/signup", "", long)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

type lostRaceStore struct {
	*repo.GormRepo
}

func (lostRaceStore) EmailTaken(context.Context, string, domain.Role) (bool, error) {
	return false, nil
}

func (lostRaceStore) CreateUser(context.Context, *models.User) error {
	return fmt.Errorf("insert user: %w", domain.ErrDuplicateEmail)
}

func TestSignup_UniqueIndexRaceIsDuplicate(t *testing.T) {
	t.Parallel()

	s := newServerWith(t, func(rp *repo.GormRepo) service.Store { return lostRaceStore{GormRepo: rp} })

	rec := s.do(t, http.MethodPost, "/auth/signup", "", john)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[transport.ErrorBody](t, rec)
	assert.Equal(t, domain.CodeDuplicateEmail, body.Code)
	assert.Equal(t, "an account with this email already exists", body.Message)
}

func TestLogin_UniformFailure(t *testing.T) {
	t.Parallel()

	s := newServer(t)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/auth/signup", "", john).Code)

	wrong := s.do(t, http.MethodPost, "/auth/login", "", map[string]any{"email": "john@example.com", "password": "nope"})
	unknown := s.do(t, http.MethodPost, "/auth/login", "", map[string]any{"email": "ghost@example.com", "password": "nope"})

	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.JSONEq(t, wrong.Body.String(), unknown.Body.String())

	missing := s.do(t, http.MethodPost, "/auth/login", "", map[string]any{"email": "john@example.com"})
	assert.Equal(t, http.StatusBadRequest, missing.Code)
}

func TestMe_PrincipalGone(t *testing.T) {
	t.Parallel()

	s := newServer(t)
	rec := s.do(t, http.MethodPost, "/auth/signup", "", john)
	require.Equal(t, http.StatusCreated, rec.Code)
	res := decode[transport.AuthResponse](t, rec)

	require.NoError(t, s.repo.DB.Where("email = ?", "john@example.com").Delete(&models.User{}).Error)

	rec = s.do(t, http.MethodGet, "/auth/me", res.Token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "not authorized, no token", decode[transport.ErrorBody](t, rec).Message)
}

func TestVendorRoutes(t *testing.T) {
	t.Parallel()

	s := newServer(t)

	rec := s.do(t, http.MethodPost, "/vendor/signup", "", jane)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	signup := decode[transport.VendorAuthResponse](t, rec)
	assert.Equal(t, "Jane's Organic Shop", signup.ShopName)
	require.NotNil(t, signup.IsVerified)
	assert.False(t, *signup.IsVerified)

	rec = s.do(t, http.MethodPost, "/vendor/login", "", map[string]any{"email": "jane@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decode[transport.VendorAuthResponse](t, rec).Token

	rec = s.do(t, http.MethodGet, "/vendor/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jane@example.com", decode[transport.Principal](t, rec).Email)

	rec = s.do(t, http.MethodPut, "/vendor/profile", token, map[string]any{"shopName": "Jane's Market"})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[transport.VendorAuthResponse](t, rec)
	assert.Equal(t, "Jane's Market", updated.ShopName)
	assert.NotEmpty(t, updated.Token)

	// a user token is refused by the role gate
	rec = s.do(t, http.MethodPost, "/auth/signup", "", john)
	require.Equal(t, http.StatusCreated, rec.Code)
	userToken := decode[transport.AuthResponse](t, rec).Token

	rec = s.do(t, http.MethodGet, "/vendor/profile", userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, decode[transport.ErrorBody](t, rec).Message, "vendor")
}

func TestHealth(t *testing.T) {
	t.Parallel()

	s := newServer(t)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/live", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/ready", "", nil).Code)
}
