package request

// UpdateCompanyProfileRequest represents a company profile update. Omitted
// fields are left unchanged.
type UpdateCompanyProfileRequest struct {
	CompanyName   *string `json:"company_name" binding:"omitempty,max=255"`
	Address       *string `json:"address"`
	Phone         *string `json:"phone" binding:"omitempty,max=50"`
	Email         *string `json:"email" binding:"omitempty,email"`
	TaxID         *string `json:"tax_id" binding:"omitempty,max=100"`
	LogoURL       *string `json:"logo_url" binding:"omitempty,url"`
	BankName      *string `json:"bank_name" binding:"omitempty,max=255"`
	AccountName   *string `json:"account_name" binding:"omitempty,max=255"`
	AccountNumber *string `json:"account_number" binding:"omitempty,max=100"`
	BranchCode    *string `json:"branch_code" binding:"omitempty,max=50"`
	Terms         *string `json:"terms"`
	SignatoryName *string `json:"signatory_name" binding:"omitempty,max=255"`
}
