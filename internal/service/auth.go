package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/apnabazaar/bazaar/internal/domain"
	"github.com/apnabazaar/bazaar/internal/events"
	"github.com/apnabazaar/bazaar/internal/models"
	"github.com/apnabazaar/bazaar/internal/transport"
	pkg_hash "github.com/apnabazaar/bazaar/pkg/hash"
	"github.com/apnabazaar/bazaar/pkg/logging"
)

type Store interface {
	CreateUser(ctx context.Context, u *models.User) error
	CreateVendor(ctx context.Context, v *models.Vendor) error
	FindByEmail(ctx context.Context, email string, role domain.Role) (models.Principal, string, error)
	EmailTaken(ctx context.Context, email string, role domain.Role) (bool, error)
	LoadPrincipal(ctx context.Context, id uuid.UUID, role domain.Role) (models.Principal, error)
	GetVendorByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	SaveVendor(ctx context.Context, v *models.Vendor) error
}

type TokenIssuer interface {
	Issue(subjectID string, role domain.Role) (string, time.Time, error)
}

type AuthService struct {
	Repo   Store
	Tokens TokenIssuer
	Events events.Publisher
}

type AuthResult struct {
	Principal models.Principal
	Token     string
	ExpiresAt time.Time
}

const publishTimeout = 5 * time.Second

func (s *AuthService) Signup(ctx context.Context, req transport.SignupRequest, role domain.Role) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signup", "role", role)

	if !role.Valid() {
		return nil, fmt.Errorf("role %q: %w", role, domain.ErrValidation)
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if role == domain.RoleVendor {
		if err := validateStruct(req.VendorDetails()); err != nil {
			return nil, err
		}
	}

	email := domain.NormalizeEmail(req.Email)
	taken, err := s.Repo.EmailTaken(ctx, email, role)
	if err != nil {
		l.Error("signup_error", "status", 500, "reason", "email lookup failed", "error", err)
		return nil, err
	}
	if taken {
		l.Warn("signup_failed", "status", 400, "reason", "duplicate email")
		return nil, fmt.Errorf("%s already registered as %s: %w", email, role, domain.ErrDuplicateEmail)
	}

	pwHash, err := pkg_hash.HashPassword(req.Password)
	if err != nil {
		if !errors.Is(err, domain.ErrValidation) {
			l.Error("signup_error", "status", 500, "reason", "cannot hash the password", "error", err)
		}
		return nil, err
	}

	var principal models.Principal
	switch role {
	case domain.RoleUser:
		u := &models.User{Name: req.Name, Email: email, PasswordHash: pwHash, Phone: req.Phone}
		err = s.Repo.CreateUser(ctx, u)
		principal = u
	case domain.RoleVendor:
		v := &models.Vendor{
			Name:         req.Name,
			Email:        email,
			PasswordHash: pwHash,
			Phone:        req.Phone,
			ShopName:     req.ShopName,
			BusinessType: domain.BusinessType(req.BusinessType),
			Address:      req.Address,
		}
		err = s.Repo.CreateVendor(ctx, v)
		principal = v
	}
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			l.Warn("signup_failed", "status", 400, "reason", "duplicate email (unique index)")
		} else {
			l.Error("signup_error", "status", 500, "error", err)
		}
		return nil, err
	}

	res, err := s.issue(principal)
	if err != nil {
		l.Error("signup_error", "status", 500, "reason", "cannot issue token", "error", err)
		return nil, err
	}

	s.publish(ctx, events.TypeUserSignedUp, principal)
	l.Info("signup_successful", "subject", principal.PrincipalID())
	return res, nil
}

// Login answers ErrInvalidCredentials for both an unknown email and a wrong
// password. A miss still runs one bcrypt comparison.
func (s *AuthService) Login(ctx context.Context, email, password string, role domain.Role) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "role", role)

	if !role.Valid() {
		return nil, fmt.Errorf("role %q: %w", role, domain.ErrValidation)
	}
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", domain.ErrValidation)
	}

	principal, pwHash, err := s.Repo.FindByEmail(ctx, email, role)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			pkg_hash.BurnCompare(password)
			l.Warn("login_failed", "status", 401, "reason", "invalid credentials")
			return nil, domain.ErrInvalidCredentials
		}
		l.Error("login_error", "status", 500, "error", err)
		return nil, err
	}
	if !pkg_hash.CheckPassword(pwHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "invalid credentials")
		return nil, domain.ErrInvalidCredentials
	}

	res, err := s.issue(principal)
	if err != nil {
		l.Error("login_error", "status", 500, "reason", "cannot issue token", "error", err)
		return nil, err
	}

	s.publish(ctx, events.TypeUserLoggedIn, principal)
	l.Info("login_successful", "subject", principal.PrincipalID())
	return res, nil
}

func (s *AuthService) Me(ctx context.Context, id uuid.UUID, role domain.Role) (models.Principal, error) {
	return s.Repo.LoadPrincipal(ctx, id, role)
}

func (s *AuthService) VendorProfile(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	return s.Repo.GetVendorByID(ctx, id)
}

// UpdateVendorProfile applies the non-empty fields of req and re-issues a
// token for the updated vendor.
func (s *AuthService) UpdateVendorProfile(ctx context.Context, id uuid.UUID, req transport.UpdateVendorRequest) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "vendor.update_profile", "subject", id)

	if err := validateStruct(req); err != nil {
		return nil, err
	}

	vendor, err := s.Repo.GetVendorByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != "" {
		email := domain.NormalizeEmail(req.Email)
		if email != vendor.Email {
			taken, err := s.Repo.EmailTaken(ctx, email, domain.RoleVendor)
			if err != nil {
				return nil, err
			}
			if taken {
				l.Warn("update_profile_failed", "status", 400, "reason", "duplicate email")
				return nil, fmt.Errorf("%s already registered as vendor: %w", email, domain.ErrDuplicateEmail)
			}
			vendor.Email = email
		}
	}
	if req.Password != "" {
		pwHash, err := pkg_hash.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		vendor.PasswordHash = pwHash
	}
	setIfNotEmpty(&vendor.Name, req.Name)
	setIfNotEmpty(&vendor.Phone, req.Phone)
	setIfNotEmpty(&vendor.ShopName, req.ShopName)
	setIfNotEmpty(&vendor.Address, req.Address)
	if req.BusinessType != "" {
		vendor.BusinessType = domain.BusinessType(req.BusinessType)
	}

	if err := s.Repo.SaveVendor(ctx, vendor); err != nil {
		l.Error("update_profile_error", "error", err)
		return nil, err
	}

	res, err := s.issue(vendor)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.TypeVendorProfileUpdated, vendor)
	l.Info("update_profile_successful")
	return res, nil
}

func (s *AuthService) issue(p models.Principal) (*AuthResult, error) {
	token, exp, err := s.Tokens.Issue(p.PrincipalID().String(), p.PrincipalRole())
	if err != nil {
		return nil, err
	}
	return &AuthResult{Principal: p, Token: token, ExpiresAt: exp}, nil
}

// publish never fails the caller; a lost event is only logged.
func (s *AuthService) publish(ctx context.Context, typ string, p models.Principal) {
	if s.Events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	ev := events.Event{
		Type:       typ,
		SubjectID:  p.PrincipalID().String(),
		Role:       p.PrincipalRole().String(),
		Email:      p.PrincipalEmail(),
		OccurredAt: time.Now().UTC(),
	}
	if err := s.Events.Publish(ctx, ev.SubjectID, ev); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "type", typ, "error", err)
	}
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
