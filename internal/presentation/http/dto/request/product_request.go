package request

import "github.com/shopspring/decimal"

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	Name  string          `json:"name" binding:"required,min=1,max=255"`
	Code  string          `json:"code" binding:"omitempty,max=100"`
	Price decimal.Decimal `json:"price"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	Name  *string          `json:"name" binding:"omitempty,min=1,max=255"`
	Code  *string          `json:"code" binding:"omitempty,min=1,max=100"`
	Price *decimal.Decimal `json:"price"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search    string `form:"search"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
