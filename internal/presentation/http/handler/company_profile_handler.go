package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/invex-billing/internal/application/service"
	"github.com/sangkips/invex-billing/internal/presentation/http/dto/request"
	"github.com/sangkips/invex-billing/internal/presentation/http/dto/response"
)

// CompanyProfileHandler handles the issuer details printed on invoices
type CompanyProfileHandler struct {
	profileService *service.CompanyProfileService
}

// NewCompanyProfileHandler creates a new company profile handler
func NewCompanyProfileHandler(profileService *service.CompanyProfileService) *CompanyProfileHandler {
	return &CompanyProfileHandler{profileService: profileService}
}

// Get returns the caller's company profile
// @Summary Get Company Profile
// @Tags company-profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /company-profile [get]
func (h *CompanyProfileHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Company profile retrieved successfully", profile)
}

// Update changes the caller's company profile
// @Summary Update Company Profile
// @Tags company-profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.UpdateCompanyProfileRequest true "Profile fields"
// @Success 200 {object} response.APIResponse
// @Router /company-profile [put]
func (h *CompanyProfileHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.UpdateCompanyProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), &service.UpdateCompanyProfileInput{
		UserID:        userID,
		CompanyName:   req.CompanyName,
		Address:       req.Address,
		Phone:         req.Phone,
		Email:         req.Email,
		TaxID:         req.TaxID,
		LogoURL:       req.LogoURL,
		BankName:      req.BankName,
		AccountName:   req.AccountName,
		AccountNumber: req.AccountNumber,
		BranchCode:    req.BranchCode,
		Terms:         req.Terms,
		SignatoryName: req.SignatoryName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Company profile updated successfully", profile)
}
