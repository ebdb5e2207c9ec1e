package handler

import (
	"net/http"
	"testing"
	"time"

	reportapp "github.com/bizledger/backend/internal/application/report"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/report"
	"github.com/bizledger/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newReportRouter(caller testCaller, svc *mockReportService) *gin.Engine {
	h := NewReportHandler(svc)
	r := newTestRouter(caller)
	g := r.Group("/reports")
	g.GET("/dashboard", h.Dashboard)
	g.GET("/sales-summary", h.SalesSummary)
	g.GET("/aging", h.Aging)
	g.GET("/expenses-by-category", h.ExpensesByCategory)
	g.GET("/top-customers", h.TopCustomers)
	g.GET("/profit-loss", h.ProfitLoss)
	g.POST("/refresh", h.Refresh)
	return r
}

func TestReportHandler(t *testing.T) {
	caller := newCaller(identity.RoleAccountant)

	tests := []struct {
		name       string
		method     string
		path       string
		setup      func(svc *mockReportService)
		wantStatus int
		wantCode   string
	}{
		{
			name:   "dashboard",
			method: http.MethodGet,
			path:   "/reports/dashboard",
			setup: func(svc *mockReportService) {
				svc.On("Dashboard", mock.Anything, caller.companyID).Return(&report.Dashboard{}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "sales summary with period",
			method: http.MethodGet,
			path:   "/reports/sales-summary?from=2026-01-01&to=2026-03-31",
			setup: func(svc *mockReportService) {
				svc.On("SalesSummary", mock.Anything, caller.companyID, mock.MatchedBy(func(f reportapp.PeriodFilter) bool {
					return f.From != nil && f.To != nil && f.To.Month() == 3
				})).Return(&report.SalesSummary{}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "malformed date",
			method:     http.MethodGet,
			path:       "/reports/profit-loss?from=01/01/2026",
			setup:      func(*mockReportService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeBadRequest,
		},
		{
			name:   "inverted period",
			method: http.MethodGet,
			path:   "/reports/expenses-by-category?from=2026-05-01&to=2026-04-01",
			setup: func(svc *mockReportService) {
				_, err := report.NewPeriod(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
				svc.On("ExpensesByCategory", mock.Anything, caller.companyID, mock.Anything).Return(nil, err)
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeValidation,
		},
		{
			name:       "top customers limit above max",
			method:     http.MethodGet,
			path:       "/reports/top-customers?limit=500",
			setup:      func(*mockReportService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeValidation,
		},
		{
			name:   "aging as of",
			method: http.MethodGet,
			path:   "/reports/aging?as_of=2026-06-30",
			setup: func(svc *mockReportService) {
				svc.On("Aging", mock.Anything, caller.companyID, mock.MatchedBy(func(f reportapp.AgingFilter) bool {
					return f.AsOf != nil
				})).Return(&report.AgingReport{}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "refresh invalidates",
			method: http.MethodPost,
			path:   "/reports/refresh",
			setup: func(svc *mockReportService) {
				svc.On("Invalidate", mock.Anything, caller.companyID).Return()
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockReportService)
			tt.setup(svc)

			w := doRequest(t, newReportRouter(caller, svc), tt.method, tt.path, nil)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeResponse(t, w).Error.Code)
			}
			svc.AssertExpectations(t)
		})
	}
}
