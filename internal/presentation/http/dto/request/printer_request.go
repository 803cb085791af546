package request

// InvoiceFormatRequest selects the rendering of GET /bills/:id/invoice
type InvoiceFormatRequest struct {
	Format   string `form:"format" binding:"omitempty,oneof=html pdf receipt"`
	Download bool   `form:"download"`
}
