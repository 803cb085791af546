package request

// UpdateDraftRequest edits the header of the current draft. Omitted fields
// are left unchanged.
type UpdateDraftRequest struct {
	InvoiceNumber      *string `json:"invoice_number" binding:"omitempty,max=32"`
	CustomerIdentifier *string `json:"customer_identifier" binding:"omitempty,max=255"`
}

// UpdateItemRequest sets one field of a draft row. Field is one of
// quantity, price, name or productRef.
type UpdateItemRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}
