package handler

import (
	"context"

	"github.com/bizledger/backend/internal/application/sales"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SalesReceiptService is the paid-in-full sale use case
type SalesReceiptService interface {
	Create(ctx context.Context, companyID, createdBy uuid.UUID, req sales.CreateSalesReceiptRequest) (*sales.SalesReceiptResponse, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*sales.SalesReceiptResponse, error)
	List(ctx context.Context, companyID uuid.UUID, filter sales.SalesReceiptListFilter) ([]sales.SalesReceiptResponse, int64, error)
	UpdateNotes(ctx context.Context, companyID, updatedBy, id uuid.UUID, req sales.UpdateSalesReceiptRequest) (*sales.SalesReceiptResponse, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
	RenderPDF(ctx context.Context, companyID, id uuid.UUID) ([]byte, string, error)
}

// SalesReceiptHandler handles sales receipt endpoints
type SalesReceiptHandler struct {
	BaseHandler
	receiptService SalesReceiptService
}

// NewSalesReceiptHandler creates a new SalesReceiptHandler
func NewSalesReceiptHandler(receiptService SalesReceiptService) *SalesReceiptHandler {
	return &SalesReceiptHandler{receiptService: receiptService}
}

// Create records a sale and decrements tracked stock
func (h *SalesReceiptHandler) Create(c *gin.Context) {
	companyID, userID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req sales.CreateSalesReceiptRequest
	if !h.bindJSON(c, &req) {
		return
	}

	receipt, err := h.receiptService.Create(c.Request.Context(), companyID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, receipt)
}

func (h *SalesReceiptHandler) GetByID(c *gin.Context) {
	companyID, _, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	receipt, err := h.receiptService.GetByID(c.Request.Context(), companyID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receipt)
}

func (h *SalesReceiptHandler) List(c *gin.Context) {
	companyID, _, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter sales.SalesReceiptListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	receipts, total, err := h.receiptService.List(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, receipts, total, p, size)
}

// UpdateNotes edits the only mutable field of a receipt
func (h *SalesReceiptHandler) UpdateNotes(c *gin.Context) {
	companyID, userID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req sales.UpdateSalesReceiptRequest
	if !h.bindJSON(c, &req) {
		return
	}

	receipt, err := h.receiptService.UpdateNotes(c.Request.Context(), companyID, userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receipt)
}

// Delete removes a receipt and restores its stock
func (h *SalesReceiptHandler) Delete(c *gin.Context) {
	companyID, _, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.receiptService.Delete(c.Request.Context(), companyID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *SalesReceiptHandler) PDF(c *gin.Context) {
	companyID, _, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	data, filename, err := h.receiptService.RenderPDF(c.Request.Context(), companyID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.sendPDF(c, filename, data)
}
