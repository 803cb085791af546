package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Bill is a finalized invoice
type Bill struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID             uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	InvoiceNumber      string          `gorm:"size:32;uniqueIndex;not null" json:"invoice_number"`
	CustomerIdentifier string          `gorm:"size:255;not null;index" json:"customer_identifier"`
	Total              decimal.Decimal `gorm:"type:numeric(24,6);not null" json:"total"` // price scale plus the two tax decimals
	CreatedAt          time.Time       `gorm:"index" json:"created_at"`

	// Relationships
	User  User       `gorm:"foreignKey:UserID" json:"-"`
	Items []BillItem `gorm:"foreignKey:BillID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new bill
func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Bill model
func (Bill) TableName() string {
	return "bills"
}

// BillItem is one persisted row of a bill
type BillItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	BillID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"bill_id"`
	ProductID *uuid.UUID      `gorm:"type:uuid;index" json:"product_id,omitempty"` // nil for manual rows
	Name      string          `gorm:"size:255;not null" json:"name"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"unit_price"`
	Position  int             `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time       `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new bill item
func (bi *BillItem) BeforeCreate(tx *gorm.DB) error {
	if bi.ID == uuid.Nil {
		bi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BillItem model
func (BillItem) TableName() string {
	return "bill_items"
}

// Amount returns quantity × unit price
func (bi *BillItem) Amount() decimal.Decimal {
	return bi.UnitPrice.Mul(decimal.NewFromInt(int64(bi.Quantity)))
}
