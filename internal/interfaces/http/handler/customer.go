package handler

import (
	"context"

	"github.com/bizledger/backend/internal/application/partner"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CustomerService is the customer use case consumed by CustomerHandler
type CustomerService interface {
	Create(ctx context.Context, companyID, createdBy uuid.UUID, req partner.CreateCustomerRequest) (*partner.CustomerResponse, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*partner.CustomerResponse, error)
	List(ctx context.Context, companyID uuid.UUID, filter partner.CustomerListFilter) ([]partner.CustomerResponse, int64, error)
	Update(ctx context.Context, companyID, updatedBy, id uuid.UUID, req partner.UpdateCustomerRequest) (*partner.CustomerResponse, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

// CustomerHandler handles customer-related API endpoints
type CustomerHandler struct {
	BaseHandler
	customerService CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// Create godoc
// @Summary      Create a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body partner.CreateCustomerRequest true "Customer"
// @Success      201 {object} dto.Response{data=partner.CustomerResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	companyID, userID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req partner.CreateCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), companyID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// GetByID godoc
// @Summary      Get customer by ID
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} dto.Response{data=partner.CustomerResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /customers/{id} [get]
func (h *CustomerHandler) GetByID(c *gin.Context) {
	companyID, _, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.GetByID(c.Request.Context(), companyID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// List godoc
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Param        search    query string false "Name, email or company"
// @Param        is_active query bool   false "Active flag"
// @Param        page      query int    false "Page"
// @Param        page_size query int    false "Page size"
// @Success      200 {object} dto.Response{data=[]partner.CustomerResponse,meta=dto.ListMeta}
// @Security     BearerAuth
// @Router       /customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	companyID, _, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter partner.CustomerListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	customers, total, err := h.customerService.List(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, customers, total, p, size)
}

// Update applies a partial update
func (h *CustomerHandler) Update(c *gin.Context) {
	companyID, userID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req partner.UpdateCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), companyID, userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Delete removes a customer. Customers with invoices are rejected with INVALID_STATE.
func (h *CustomerHandler) Delete(c *gin.Context) {
	companyID, _, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.customerService.Delete(c.Request.Context(), companyID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
