package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/adityaharshit/code-i-technology-sub001/internal/models"
)

// AdminRepository provides access to back-office user records.
type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByID(ctx context.Context, id uint) (models.Admin, error)
	GetByEmail(ctx context.Context, email string) (models.Admin, error)
}

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository constructs an admin repository.
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(ctx context.Context, admin *models.Admin) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

func (r *adminRepository) GetByID(ctx context.Context, id uint) (models.Admin, error) {
	var admin models.Admin
	if err := r.db.WithContext(ctx).First(&admin, id).Error; err != nil {
		return models.Admin{}, err
	}

	return admin, nil
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (models.Admin, error) {
	var admin models.Admin
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&admin).Error
	if err != nil {
		return models.Admin{}, err
	}

	return admin, nil
}
