package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/invex-billing/internal/application/service"
	"github.com/sangkips/invex-billing/internal/domain/enum"
	"github.com/sangkips/invex-billing/internal/domain/repository"
	"github.com/sangkips/invex-billing/internal/presentation/http/dto/request"
	"github.com/sangkips/invex-billing/internal/presentation/http/dto/response"
	"github.com/sangkips/invex-billing/pkg/pagination"
)

const dateLayout = "2006-01-02"

// BillHandler serves the history of finalized bills
type BillHandler struct {
	billService *service.BillService
}

// NewBillHandler creates a new bill handler
func NewBillHandler(billService *service.BillService) *BillHandler {
	return &BillHandler{billService: billService}
}

// List handles listing bills
// @Summary List Bills
// @Tags bills
// @Security BearerAuth
// @Produce json
// @Param search query string false "Invoice number or customer"
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD, inclusive"
// @Param all_users query bool false "Every user's bills, needs view-all-bills"
// @Success 200 {object} response.APIResponse
// @Router /bills [get]
func (h *BillHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	params, ok := billFilter(c)
	if !ok {
		return
	}

	result, err := h.billService.ListBills(c.Request.Context(), userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Bills retrieved successfully", result)
}

// Export handles downloading the filtered bill list as a spreadsheet
// @Summary Export Bills
// @Tags bills
// @Security BearerAuth
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Router /bills/export [get]
func (h *BillHandler) Export(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	params, ok := billFilter(c)
	if !ok {
		return
	}

	file, err := h.billService.ExportBills(c.Request.Context(), userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.File(c, file.Filename, file.ContentType, file.Data, true)
}

// Get handles getting a single bill with its items
// @Summary Get Bill
// @Tags bills
// @Security BearerAuth
// @Produce json
// @Param id path string true "Bill ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /bills/{id} [get]
func (h *BillHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	bill, err := h.billService.GetBill(ownerContext(c, userID), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill retrieved successfully", bill)
}

// Invoice renders a bill as HTML, PDF or an ESC/POS receipt
// @Summary Render Invoice
// @Tags bills
// @Security BearerAuth
// @Param id path string true "Bill ID"
// @Param format query string false "html, pdf or receipt" default(html)
// @Param download query bool false "Send as attachment"
// @Success 200 {file} file
// @Failure 400 {object} response.APIResponse
// @Router /bills/{id}/invoice [get]
func (h *BillHandler) Invoice(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req request.InvoiceFormatRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Unsupported invoice format")
		return
	}
	format, err := enum.ParseDocumentFormat(req.Format)
	if err != nil {
		response.BadRequest(c, "Unsupported invoice format")
		return
	}

	invoice, err := h.billService.RenderInvoice(ownerContext(c, userID), id, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	download := req.Download || format == enum.DocumentFormatReceipt
	response.File(c, invoice.Filename, invoice.ContentType, invoice.Data, download)
}

// billFilter reads the shared filters of List and Export
func billFilter(c *gin.Context) (*repository.BillFilterParams, bool) {
	var filter request.BillFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return nil, false
	}

	params := &repository.BillFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:         filter.Search,
		SortBy:         filter.SortBy,
		SortOrder:      filter.SortOrder,
		SkipUserFilter: filter.AllUsers && CanViewAllBills(c),
	}

	if filter.StartDate != "" {
		startDate, err := time.Parse(dateLayout, filter.StartDate)
		if err != nil {
			response.BadRequest(c, "Invalid start_date, use YYYY-MM-DD")
			return nil, false
		}
		params.StartDate = &startDate
	}

	if filter.EndDate != "" {
		endDate, err := time.Parse(dateLayout, filter.EndDate)
		if err != nil {
			response.BadRequest(c, "Invalid end_date, use YYYY-MM-DD")
			return nil, false
		}
		// include the whole end day
		endDate = endDate.Add(24*time.Hour - time.Nanosecond)
		params.EndDate = &endDate
	}

	return params, true
}
