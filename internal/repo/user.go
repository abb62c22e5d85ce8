package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/apnabazaar/bazaar/internal/domain"
	"github.com/apnabazaar/bazaar/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return mapDuplicate(r.DB.WithContext(ctx).Create(u).Error)
}

func (r *GormRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", domain.NormalizeEmail(email)).First(&user).Error; err != nil {
		return nil, mapNotFound(err, "user")
	}
	return &user, nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, mapNotFound(err, "user")
	}
	return &user, nil
}
