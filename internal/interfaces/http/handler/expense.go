package handler

import (
	"context"

	"github.com/bizledger/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ExpenseService is the expense use case consumed by ExpenseHandler
type ExpenseService interface {
	Create(ctx context.Context, companyID, createdBy uuid.UUID, req finance.CreateExpenseRequest) (*finance.ExpenseResponse, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*finance.ExpenseResponse, error)
	List(ctx context.Context, companyID uuid.UUID, filter finance.ExpenseListFilter) ([]finance.ExpenseResponse, int64, error)
	Update(ctx context.Context, companyID, updatedBy, id uuid.UUID, req finance.UpdateExpenseRequest) (*finance.ExpenseResponse, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
	CreateReceiptUploadURL(ctx context.Context, companyID, id uuid.UUID, req finance.ReceiptUploadRequest) (*finance.ReceiptUploadResponse, error)
	GetReceiptURL(ctx context.Context, companyID, id uuid.UUID) (*finance.ReceiptURLResponse, error)
}

// ExpenseHandler handles expense endpoints
type ExpenseHandler struct {
	BaseHandler
	expenseService ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

func (h *ExpenseHandler) Create(c *gin.Context) {
	companyID, userID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req finance.CreateExpenseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	expense, err := h.expenseService.Create(c.Request.Context(), companyID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, expense)
}

func (h *ExpenseHandler) GetByID(c *gin.Context) {
	companyID, _, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	expense, err := h.expenseService.GetByID(c.Request.Context(), companyID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expense)
}

func (h *ExpenseHandler) List(c *gin.Context) {
	companyID, _, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter finance.ExpenseListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	expenses, total, err := h.expenseService.List(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, expenses, total, p, size)
}

func (h *ExpenseHandler) Update(c *gin.Context) {
	companyID, userID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req finance.UpdateExpenseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	expense, err := h.expenseService.Update(c.Request.Context(), companyID, userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expense)
}

func (h *ExpenseHandler) Delete(c *gin.Context) {
	companyID, _, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.expenseService.Delete(c.Request.Context(), companyID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ReceiptUploadURL godoc
// @Summary      Presign a receipt upload
// @Description  Returns a PUT URL for the receipt file and records its storage key on the expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id      path string                       true "Expense ID" format(uuid)
// @Param        request body finance.ReceiptUploadRequest true "File"
// @Success      200 {object} dto.Response{data=finance.ReceiptUploadResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /expenses/{id}/receipt-upload-url [post]
func (h *ExpenseHandler) ReceiptUploadURL(c *gin.Context) {
	companyID, _, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req finance.ReceiptUploadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.expenseService.CreateReceiptUploadURL(c.Request.Context(), companyID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ReceiptURL returns a presigned download URL for the attached receipt
func (h *ExpenseHandler) ReceiptURL(c *gin.Context) {
	companyID, _, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	resp, err := h.expenseService.GetReceiptURL(c.Request.Context(), companyID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
