package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/invex-billing/internal/domain/entity"
	"github.com/sangkips/invex-billing/internal/domain/repository"
	"github.com/sangkips/invex-billing/internal/infrastructure/notify"
	"go.uber.org/zap"
)

// CompanyProfileService manages the issuer details printed on invoices
type CompanyProfileService struct {
	profileRepo repository.CompanyProfileRepository
	hub         notify.Hub
	log         *zap.Logger
}

// NewCompanyProfileService creates a new company profile service
func NewCompanyProfileService(profileRepo repository.CompanyProfileRepository, hub notify.Hub, log *zap.Logger) *CompanyProfileService {
	return &CompanyProfileService{
		profileRepo: profileRepo,
		hub:         hub,
		log:         log.Named("company_profile"),
	}
}

// GetProfile retrieves the user's company profile, creating an empty one
// if none exists
func (s *CompanyProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.CompanyProfile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if profile == nil {
		profile = &entity.CompanyProfile{UserID: userID}
		if err := s.profileRepo.Create(ctx, profile); err != nil {
			return nil, err
		}
	}

	return profile, nil
}

// UpdateCompanyProfileInput represents the input for updating the company profile.
// Nil fields are left unchanged.
type UpdateCompanyProfileInput struct {
	UserID        uuid.UUID
	CompanyName   *string
	Address       *string
	Phone         *string
	Email         *string
	TaxID         *string
	LogoURL       *string
	BankName      *string
	AccountName   *string
	AccountNumber *string
	BranchCode    *string
	Terms         *string
	SignatoryName *string
}

// UpdateProfile updates the user's company profile
func (s *CompanyProfileService) UpdateProfile(ctx context.Context, input *UpdateCompanyProfileInput) (*entity.CompanyProfile, error) {
	profile, err := s.GetProfile(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	for _, f := range []struct {
		dst *string
		src *string
	}{
		{&profile.CompanyName, input.CompanyName},
		{&profile.Address, input.Address},
		{&profile.Phone, input.Phone},
		{&profile.Email, input.Email},
		{&profile.TaxID, input.TaxID},
		{&profile.LogoURL, input.LogoURL},
		{&profile.BankName, input.BankName},
		{&profile.AccountName, input.AccountName},
		{&profile.AccountNumber, input.AccountNumber},
		{&profile.BranchCode, input.BranchCode},
		{&profile.Terms, input.Terms},
		{&profile.SignatoryName, input.SignatoryName},
	} {
		if f.src != nil {
			*f.dst = *f.src
		}
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	event := notify.Event{
		Topic:  notify.TopicProfiles,
		Action: notify.ActionUpdated,
		ID:     profile.ID.String(),
		UserID: input.UserID.String(),
		At:     time.Now(),
	}
	if err := s.hub.Publish(ctx, event); err != nil {
		s.log.Warn("publish profile change", zap.Error(err))
	}
	return profile, nil
}
