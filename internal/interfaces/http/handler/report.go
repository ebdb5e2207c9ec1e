package handler

import (
	"context"

	reportapp "github.com/bizledger/backend/internal/application/report"
	"github.com/bizledger/backend/internal/domain/report"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReportService produces the cached financial reports
type ReportService interface {
	Dashboard(ctx context.Context, companyID uuid.UUID) (*report.Dashboard, error)
	SalesSummary(ctx context.Context, companyID uuid.UUID, f reportapp.PeriodFilter) (*report.SalesSummary, error)
	Aging(ctx context.Context, companyID uuid.UUID, f reportapp.AgingFilter) (*report.AgingReport, error)
	ExpensesByCategory(ctx context.Context, companyID uuid.UUID, f reportapp.PeriodFilter) (*report.ExpenseBreakdown, error)
	TopCustomers(ctx context.Context, companyID uuid.UUID, f reportapp.TopCustomersFilter) (*reportapp.TopCustomersResponse, error)
	ProfitLoss(ctx context.Context, companyID uuid.UUID, f reportapp.PeriodFilter) (*report.ProfitLoss, error)
	Invalidate(ctx context.Context, companyID uuid.UUID)
}

// ReportHandler handles report-related API endpoints
type ReportHandler struct {
	BaseHandler
	reportService ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// serveReport binds the query into F, runs the report for the caller's company
// and writes the result.
func serveReport[F any, R any](h *ReportHandler, c *gin.Context, run func(context.Context, uuid.UUID, F) (R, error)) {
	companyID, _, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter F
	if !h.bindQuery(c, &filter) {
		return
	}

	result, err := run(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Dashboard godoc
// @Summary      Month to date dashboard
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.Response{data=report.Dashboard}
// @Security     BearerAuth
// @Router       /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	serveReport(h, c, func(ctx context.Context, companyID uuid.UUID, _ struct{}) (*report.Dashboard, error) {
		return h.reportService.Dashboard(ctx, companyID)
	})
}

// SalesSummary godoc
// @Summary      Sales summary
// @Tags         reports
// @Produce      json
// @Param        from query string false "Start date (YYYY-MM-DD), defaults to the first of the month"
// @Param        to   query string false "End date (YYYY-MM-DD), defaults to today"
// @Success      200 {object} dto.Response{data=report.SalesSummary}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/sales-summary [get]
func (h *ReportHandler) SalesSummary(c *gin.Context) {
	serveReport(h, c, h.reportService.SalesSummary)
}

// Aging returns receivables bucketed by days past due
func (h *ReportHandler) Aging(c *gin.Context) {
	serveReport(h, c, h.reportService.Aging)
}

func (h *ReportHandler) ExpensesByCategory(c *gin.Context) {
	serveReport(h, c, h.reportService.ExpensesByCategory)
}

func (h *ReportHandler) TopCustomers(c *gin.Context) {
	serveReport(h, c, h.reportService.TopCustomers)
}

func (h *ReportHandler) ProfitLoss(c *gin.Context) {
	serveReport(h, c, h.reportService.ProfitLoss)
}

// Refresh drops the company's cached reports so the next read recomputes them
func (h *ReportHandler) Refresh(c *gin.Context) {
	companyID, _, ok := h.tenant(c)
	if !ok {
		return
	}
	h.reportService.Invalidate(c.Request.Context(), companyID)
	h.Success(c, MessageResponse{Message: "Reports will be recomputed on next read"})
}
