package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/bizledger/backend/internal/application/finance"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newExpenseRouter(caller testCaller, svc *mockExpenseService) *gin.Engine {
	h := NewExpenseHandler(svc)
	r := newTestRouter(caller)
	g := r.Group("/expenses")
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.GetByID)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/receipt-upload-url", h.ReceiptUploadURL)
	g.GET("/:id/receipt-url", h.ReceiptURL)
	return r
}

func TestExpenseHandler_Create(t *testing.T) {
	caller := newCaller(identity.RoleAccountant)

	t.Run("created", func(t *testing.T) {
		svc := new(mockExpenseService)
		svc.On("Create", mock.Anything, caller.companyID, caller.userID, mock.MatchedBy(func(req finance.CreateExpenseRequest) bool {
			return req.Category == "rent" && req.Amount.Equal(decimal.NewFromInt(1200))
		})).Return(&finance.ExpenseResponse{ID: uuid.New()}, nil)

		w := doRequest(t, newExpenseRouter(caller, svc), http.MethodPost, "/expenses",
			map[string]any{"category": "rent", "amount": "1200"})

		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("category required", func(t *testing.T) {
		w := doRequest(t, newExpenseRouter(caller, new(mockExpenseService)), http.MethodPost, "/expenses",
			map[string]any{"amount": "10"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "category", decodeResponse(t, w).Error.Details[0].Field)
	})
}

func TestExpenseHandler_ReceiptURLs(t *testing.T) {
	caller := newCaller(identity.RoleAccountant)
	id := uuid.New()
	expires := time.Now().Add(15 * time.Minute).UTC()

	t.Run("upload url", func(t *testing.T) {
		svc := new(mockExpenseService)
		svc.On("CreateReceiptUploadURL", mock.Anything, caller.companyID, id,
			finance.ReceiptUploadRequest{FileName: "fuel.jpg", ContentType: "image/jpeg"}).
			Return(&finance.ReceiptUploadResponse{UploadURL: "https://s3.test/put", StorageKey: "k", ExpiresAt: expires}, nil)

		w := doRequest(t, newExpenseRouter(caller, svc), http.MethodPost, "/expenses/"+id.String()+"/receipt-upload-url",
			map[string]string{"file_name": "fuel.jpg", "content_type": "image/jpeg"})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp finance.ReceiptUploadResponse
		decodeData(t, w, &resp)
		assert.Equal(t, "https://s3.test/put", resp.UploadURL)
	})

	t.Run("no receipt attached", func(t *testing.T) {
		svc := new(mockExpenseService)
		svc.On("GetReceiptURL", mock.Anything, caller.companyID, id).Return(nil, shared.ErrNotFound)

		w := doRequest(t, newExpenseRouter(caller, svc), http.MethodGet, "/expenses/"+id.String()+"/receipt-url", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeNotFound, decodeResponse(t, w).Error.Code)
	})
}
