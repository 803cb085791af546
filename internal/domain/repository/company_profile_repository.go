package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/invex-billing/internal/domain/entity"
)

// CompanyProfileRepository defines the interface for issuer profile data access
type CompanyProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.CompanyProfile, error)
	Create(ctx context.Context, profile *entity.CompanyProfile) error
	Update(ctx context.Context, profile *entity.CompanyProfile) error
}
