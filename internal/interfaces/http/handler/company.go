package handler

import (
	"context"
	"net/http"

	"github.com/bizledger/backend/internal/application/company"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/interfaces/http/dto"
	"github.com/bizledger/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CompanyService reads and updates the caller's company
type CompanyService interface {
	Get(ctx context.Context, companyID uuid.UUID) (*company.CompanyResponse, error)
	Update(ctx context.Context, companyID uuid.UUID, req company.UpdateCompanyRequest) (*company.CompanyResponse, error)
}

// CompanyHandler serves the company profile and document settings
type CompanyHandler struct {
	BaseHandler
	companyService CompanyService
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(companyService CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// Get returns the caller's company
func (h *CompanyHandler) Get(c *gin.Context) {
	companyID, _, ok := h.tenant(c)
	if !ok {
		return
	}

	resp, err := h.companyService.Get(c.Request.Context(), companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update edits the company profile. Changing currency, prefixes or payment
// terms additionally needs manage_settings.
func (h *CompanyHandler) Update(c *gin.Context) {
	companyID, _, ok := h.tenant(c)
	if !ok {
		return
	}
	var req company.UpdateCompanyRequest
	if !h.bindJSON(c, &req) {
		return
	}
	touchesSettings := req.Currency != nil || req.InvoicePrefix != nil || req.ReceiptPrefix != nil || req.PaymentTermsDays != nil
	if touchesSettings && !middleware.HasPermission(c, identity.PermManageSettings) {
		h.Error(c, http.StatusForbidden, dto.ErrCodeForbidden, "Missing permission: "+identity.PermManageSettings.String())
		return
	}

	resp, err := h.companyService.Update(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
