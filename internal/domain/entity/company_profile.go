package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompanyProfile is the issuer identity printed on a user's invoices
type CompanyProfile struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Issuer
	CompanyName string `gorm:"size:255" json:"company_name"`
	Address     string `gorm:"type:text" json:"address"`
	Phone       string `gorm:"size:50" json:"phone"`
	Email       string `gorm:"size:255" json:"email"`
	TaxID       string `gorm:"size:100" json:"tax_id"`
	LogoURL     string `gorm:"size:512" json:"logo_url"`

	// Bank details
	BankName      string `gorm:"size:255" json:"bank_name"`
	AccountName   string `gorm:"size:255" json:"account_name"`
	AccountNumber string `gorm:"size:100" json:"account_number"`
	BranchCode    string `gorm:"size:50" json:"branch_code"`

	// Footer
	Terms         string `gorm:"type:text" json:"terms"`
	SignatoryName string `gorm:"size:255" json:"signatory_name"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new profile
func (p *CompanyProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CompanyProfile model
func (CompanyProfile) TableName() string {
	return "company_profiles"
}
