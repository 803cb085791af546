package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/invex-billing/internal/domain/entity"
	domainRepo "github.com/sangkips/invex-billing/internal/domain/repository"
	"gorm.io/gorm"
)

type companyProfileRepository struct {
	db *gorm.DB
}

// NewCompanyProfileRepository creates a new company profile repository
func NewCompanyProfileRepository(db *gorm.DB) domainRepo.CompanyProfileRepository {
	return &companyProfileRepository{db: db}
}

// GetByUserID retrieves the profile of a user
func (r *companyProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.CompanyProfile, error) {
	var profile entity.CompanyProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &profile, err
}

// Create creates a new profile
func (r *companyProfileRepository) Create(ctx context.Context, profile *entity.CompanyProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// Update updates an existing profile
func (r *companyProfileRepository) Update(ctx context.Context, profile *entity.CompanyProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}
