package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/apnabazaar/bazaar/internal/domain"
	"github.com/apnabazaar/bazaar/internal/models"
)

func (r *GormRepo) CreateVendor(ctx context.Context, v *models.Vendor) error {
	return mapDuplicate(r.DB.WithContext(ctx).Create(v).Error)
}

func (r *GormRepo) FindVendorByEmail(ctx context.Context, email string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.DB.WithContext(ctx).Where("email = ?", domain.NormalizeEmail(email)).First(&vendor).Error; err != nil {
		return nil, mapNotFound(err, "vendor")
	}
	return &vendor, nil
}

func (r *GormRepo) GetVendorByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&vendor).Error; err != nil {
		return nil, mapNotFound(err, "vendor")
	}
	return &vendor, nil
}

// SaveVendor writes every column of v, including a changed email; a clash
// with another vendor's address is ErrDuplicateEmail.
func (r *GormRepo) SaveVendor(ctx context.Context, v *models.Vendor) error {
	return mapDuplicate(r.DB.WithContext(ctx).Save(v).Error)
}
