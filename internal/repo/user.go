package repo

import (
	"context"

	"github.com/Abdul1ayev/greenshop-api/internal/models"
	"github.com/google/uuid"
)

func (r *GormRepo) CreateUser(ctx context.Context, user *models.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) SaveUser(ctx context.Context, user *models.User) error {
	return r.DB.WithContext(ctx).Save(user).Error
}

// ListUsers returns users for the admin table, optionally filtered by an
// email substring the way the admin search box does.
func (r *GormRepo) ListUsers(ctx context.Context, emailFilter string) ([]models.User, error) {
	q := r.DB.WithContext(ctx).Model(&models.User{})
	if emailFilter != "" {
		q = q.Where("LOWER(email) LIKE LOWER(?)", "%"+emailFilter+"%")
	}

	var users []models.User
	if err := q.Order("email ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
