package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/apnabazaar/bazaar/internal/domain"
	"github.com/apnabazaar/bazaar/internal/models"
)

const pgUniqueViolation = "23505"

// GormRepo is the Credential Store. Users and vendors live in separate
// tables, each with its own unique email index.
type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

// LoadPrincipal fetches the principal a token refers to, picking the table
// by role.
func (r *GormRepo) LoadPrincipal(ctx context.Context, id uuid.UUID, role domain.Role) (models.Principal, error) {
	switch role {
	case domain.RoleUser:
		u, err := r.GetUserByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return u, nil
	case domain.RoleVendor:
		v, err := r.GetVendorByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("load principal: role %q: %w", role, domain.ErrValidation)
	}
}

// FindByEmail looks the address up in the role's own collection.
func (r *GormRepo) FindByEmail(ctx context.Context, email string, role domain.Role) (models.Principal, string, error) {
	switch role {
	case domain.RoleUser:
		u, err := r.FindUserByEmail(ctx, email)
		if err != nil {
			return nil, "", err
		}
		return u, u.PasswordHash, nil
	case domain.RoleVendor:
		v, err := r.FindVendorByEmail(ctx, email)
		if err != nil {
			return nil, "", err
		}
		return v, v.PasswordHash, nil
	default:
		return nil, "", fmt.Errorf("find by email: role %q: %w", role, domain.ErrValidation)
	}
}

func (r *GormRepo) EmailTaken(ctx context.Context, email string, role domain.Role) (bool, error) {
	var m any
	switch role {
	case domain.RoleUser:
		m = &models.User{}
	case domain.RoleVendor:
		m = &models.Vendor{}
	default:
		return false, fmt.Errorf("email taken: role %q: %w", role, domain.ErrValidation)
	}

	var count int64
	if err := r.DB.WithContext(ctx).Model(m).
		Where("email = ?", domain.NormalizeEmail(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func mapNotFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return err
}

// mapDuplicate turns a unique-index violation into ErrDuplicateEmail. It is
// the backstop for two concurrent signups that both passed the pre-check.
func mapDuplicate(err error) error {
	if err == nil {
		return nil
	}
	if isDuplicateKey(err) {
		return fmt.Errorf("%v: %w", err, domain.ErrDuplicateEmail)
	}
	return err
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
