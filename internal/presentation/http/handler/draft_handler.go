package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/invex-billing/internal/application/service"
	"github.com/sangkips/invex-billing/internal/domain/billing"
	"github.com/sangkips/invex-billing/internal/presentation/http/dto/request"
	"github.com/sangkips/invex-billing/internal/presentation/http/dto/response"
)

// DraftHandler drives the bill being entered at the billing desk
type DraftHandler struct {
	draftService *service.DraftService
}

// NewDraftHandler creates a new draft handler
func NewDraftHandler(draftService *service.DraftService) *DraftHandler {
	return &DraftHandler{draftService: draftService}
}

// Get returns the caller's current draft
// @Summary Get Draft
// @Tags draft
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /draft [get]
func (h *DraftHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	draft, err := h.draftService.GetDraft(c.Request.Context(), userID)
	h.respond(c, "Draft retrieved successfully", draft, err)
}

// Update edits the invoice number or the customer of the draft
// @Summary Update Draft
// @Tags draft
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.UpdateDraftRequest true "Draft header"
// @Success 200 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /draft [put]
func (h *DraftHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	draft, err := h.draftService.UpdateDraft(c.Request.Context(), userID, &service.UpdateDraftInput{
		InvoiceNumber:      req.InvoiceNumber,
		CustomerIdentifier: req.CustomerIdentifier,
	})
	h.respond(c, "Draft updated successfully", draft, err)
}

// New throws the current draft away and starts a fresh one
// @Summary New Draft
// @Tags draft
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /draft/new [post]
func (h *DraftHandler) New(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	draft, err := h.draftService.NewDraft(c.Request.Context(), userID)
	h.respond(c, "New draft started", draft, err)
}

// AddItem appends an empty row
// @Summary Add Item
// @Tags draft
// @Security BearerAuth
// @Produce json
// @Success 201 {object} response.APIResponse
// @Router /draft/items [post]
func (h *DraftHandler) AddItem(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	draft, index, err := h.draftService.AddItem(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Item added", gin.H{
		"index": index,
		"draft": response.NewDraftResponse(draft),
	})
}

// UpdateItem sets one field of a row
// @Summary Update Item
// @Tags draft
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param index path int true "Row index"
// @Param request body request.UpdateItemRequest true "Field and value"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /draft/items/{index} [patch]
func (h *DraftHandler) UpdateItem(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	index, ok := paramIndex(c)
	if !ok {
		return
	}

	var req request.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	draft, err := h.draftService.UpdateItem(c.Request.Context(), userID, &service.UpdateItemInput{
		Index: index,
		Field: req.Field,
		Value: req.Value,
	})
	h.respond(c, "Item updated", draft, err)
}

// RemoveItem deletes a row
// @Summary Remove Item
// @Tags draft
// @Security BearerAuth
// @Produce json
// @Param index path int true "Row index"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /draft/items/{index} [delete]
func (h *DraftHandler) RemoveItem(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	index, ok := paramIndex(c)
	if !ok {
		return
	}

	draft, err := h.draftService.RemoveItem(c.Request.Context(), userID, index)
	h.respond(c, "Item removed", draft, err)
}

// Preview validates the draft and locks it for payment
// @Summary Preview Draft
// @Tags draft
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /draft/preview [post]
func (h *DraftHandler) Preview(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	draft, err := h.draftService.Preview(c.Request.Context(), userID)
	h.respond(c, "Draft ready for payment", draft, err)
}

// BackToEdit unlocks a previewed draft
// @Summary Back To Edit
// @Tags draft
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /draft/edit [post]
func (h *DraftHandler) BackToEdit(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	draft, err := h.draftService.BackToEdit(c.Request.Context(), userID)
	h.respond(c, "Draft reopened for editing", draft, err)
}

// Cancel abandons a previewed draft and starts a fresh one
// @Summary Cancel Draft
// @Tags draft
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /draft/cancel [post]
func (h *DraftHandler) Cancel(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	draft, err := h.draftService.Cancel(c.Request.Context(), userID)
	h.respond(c, "Draft cancelled", draft, err)
}

// Pay persists the previewed draft as a bill
// @Summary Pay
// @Tags draft
// @Security BearerAuth
// @Produce json
// @Param Idempotency-Key header string false "Replays the first response for a repeated key"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 503 {object} response.APIResponse
// @Router /draft/pay [post]
func (h *DraftHandler) Pay(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	result, err := h.draftService.Pay(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Bill saved successfully", gin.H{
		"bill":  result.Bill,
		"draft": response.NewDraftResponse(result.Draft),
	})
}

func (h *DraftHandler) respond(c *gin.Context, message string, draft *billing.Draft, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, message, response.NewDraftResponse(draft))
}

// paramIndex parses the :index path parameter, writing 400 on failure
func paramIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.BadRequest(c, "Invalid item index")
		return 0, false
	}
	return index, true
}
