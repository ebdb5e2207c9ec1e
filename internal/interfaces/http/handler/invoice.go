package handler

import (
	"context"

	"github.com/bizledger/backend/internal/application/sales"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InvoiceService is the invoice lifecycle use case consumed by InvoiceHandler
type InvoiceService interface {
	Create(ctx context.Context, companyID, createdBy uuid.UUID, req sales.CreateInvoiceRequest) (*sales.InvoiceResponse, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*sales.InvoiceResponse, error)
	List(ctx context.Context, companyID uuid.UUID, filter sales.InvoiceListFilter) ([]sales.InvoiceSummaryResponse, int64, error)
	Update(ctx context.Context, companyID, updatedBy, id uuid.UUID, req sales.UpdateInvoiceRequest) (*sales.InvoiceResponse, error)
	Send(ctx context.Context, companyID, updatedBy, id uuid.UUID) (*sales.InvoiceResponse, error)
	Cancel(ctx context.Context, companyID, updatedBy, id uuid.UUID, req sales.CancelInvoiceRequest) (*sales.InvoiceResponse, error)
	RecordPayment(ctx context.Context, companyID, recordedBy, id uuid.UUID, req sales.RecordPaymentRequest) (*sales.InvoiceResponse, error)
	ListPayments(ctx context.Context, companyID, id uuid.UUID) ([]sales.PaymentResponse, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
	RenderPDF(ctx context.Context, companyID, id uuid.UUID) ([]byte, string, error)
}

// InvoiceHandler handles invoice endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Create godoc
// @Summary      Create a draft invoice
// @Description  Number is allocated from the company prefix unless invoice_number is given
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body sales.CreateInvoiceRequest true "Invoice"
// @Success      201 {object} dto.Response{data=sales.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	companyID, userID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req sales.CreateInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), companyID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// GetByID godoc
// @Summary      Get invoice by ID
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=sales.InvoiceResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	companyID, _, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), companyID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// List godoc
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Param        status      query string false "Status"
// @Param        customer_id query string false "Customer ID"
// @Param        from        query string false "Invoice date from (YYYY-MM-DD)"
// @Param        to          query string false "Invoice date to (YYYY-MM-DD)"
// @Param        page        query int    false "Page"
// @Param        page_size   query int    false "Page size"
// @Success      200 {object} dto.Response{data=[]sales.InvoiceSummaryResponse,meta=dto.ListMeta}
// @Security     BearerAuth
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	companyID, _, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter sales.InvoiceListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	invoices, total, err := h.invoiceService.List(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, invoices, total, p, size)
}

// Update edits a draft invoice
func (h *InvoiceHandler) Update(c *gin.Context) {
	companyID, userID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req sales.UpdateInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.Update(c.Request.Context(), companyID, userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Send godoc
// @Summary      Send an invoice
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=sales.InvoiceResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id}/send [patch]
func (h *InvoiceHandler) Send(c *gin.Context) {
	companyID, userID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.Send(c.Request.Context(), companyID, userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Cancel cancels an invoice without payments. The reason is optional.
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	companyID, userID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req sales.CancelInvoiceRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.Cancel(c.Request.Context(), companyID, userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// RecordPayment godoc
// @Summary      Record a payment
// @Description  Amount must not exceed the balance due by more than 0.01
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id      path string                     true "Invoice ID" format(uuid)
// @Param        request body sales.RecordPaymentRequest true "Payment"
// @Success      201 {object} dto.Response{data=sales.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id}/payments [post]
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	companyID, userID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req sales.RecordPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.RecordPayment(c.Request.Context(), companyID, userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// ListPayments returns the payment history of an invoice
func (h *InvoiceHandler) ListPayments(c *gin.Context) {
	companyID, _, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	payments, err := h.invoiceService.ListPayments(c.Request.Context(), companyID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// Delete removes a draft or cancelled invoice
func (h *InvoiceHandler) Delete(c *gin.Context) {
	companyID, _, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), companyID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// PDF godoc
// @Summary      Download invoice PDF
// @Tags         invoices
// @Produce      application/pdf
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {file} binary
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *gin.Context) {
	companyID, _, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	data, filename, err := h.invoiceService.RenderPDF(c.Request.Context(), companyID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.sendPDF(c, filename, data)
}
