package handler

import (
	"net/http"
	"testing"

	"github.com/bizledger/backend/internal/application/catalog"
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

func newItemRouter(caller testCaller, svc *mockItemService) *gin.Engine {
	h := NewItemHandler(svc)
	r := newTestRouter(caller)
	g := r.Group("/items")
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.GetByID)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	return r
}

func TestItemHandler_Create(t *testing.T) {
	caller := newCaller(identity.RoleAdmin)

	t.Run("created", func(t *testing.T) {
		svc := new(mockItemService)
		svc.On("Create", mock.Anything, caller.companyID, caller.userID, mock.MatchedBy(func(req catalog.CreateItemRequest) bool {
			return req.Name == "Widget" && req.Type == "product" && req.Rate.Equal(decimal.RequireFromString("12.50"))
		})).Return(&catalog.ItemResponse{ID: uuid.New(), Name: "Widget", Type: "product"}, nil)

		w := doRequest(t, newItemRouter(caller, svc), http.MethodPost, "/items",
			map[string]any{"name": "Widget", "type": "product", "rate": "12.50"})

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var item catalog.ItemResponse
		decodeData(t, w, &item)
		assert.Equal(t, "Widget", item.Name)
		svc.AssertExpectations(t)
	})

	t.Run("unknown type", func(t *testing.T) {
		svc := new(mockItemService)
		w := doRequest(t, newItemRouter(caller, svc), http.MethodPost, "/items",
			map[string]any{"name": "Widget", "type": "bundle"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "type", resp.Error.Details[0].Field)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("duplicate sku", func(t *testing.T) {
		svc := new(mockItemService)
		svc.On("Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, shared.ErrAlreadyExists)

		w := doRequest(t, newItemRouter(caller, svc), http.MethodPost, "/items",
			map[string]any{"name": "Widget", "type": "product", "sku": "W-1"})

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestItemHandler_List(t *testing.T) {
	caller := newCaller(identity.RoleStaff)
	svc := new(mockItemService)
	svc.On("List", mock.Anything, caller.companyID, mock.MatchedBy(func(f catalog.ItemListFilter) bool {
		return f.Type == "service" && f.Active != nil && *f.Active && f.Search == "consult"
	})).Return([]catalog.ItemResponse{{Name: "Consulting"}}, int64(1), nil)

	w := doRequest(t, newItemRouter(caller, svc), http.MethodGet, "/items?type=service&is_active=true&search=consult", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)
	svc.AssertExpectations(t)
}

func TestItemHandler_UpdateAndDelete(t *testing.T) {
	caller := newCaller(identity.RoleAdmin)
	id := uuid.New()

	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		setup      func(svc *mockItemService)
		wantStatus int
	}{
		{
			name:   "partial update",
			method: http.MethodPut,
			path:   "/items/" + id.String(),
			body:   map[string]string{"rate": "15"},
			setup: func(svc *mockItemService) {
				svc.On("Update", mock.Anything, caller.companyID, caller.userID, id, mock.MatchedBy(func(req catalog.UpdateItemRequest) bool {
					return req.Rate != nil && req.Rate.Equal(decimal.NewFromInt(15)) && req.Name == nil
				})).Return(&catalog.ItemResponse{ID: id}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "update missing item",
			method: http.MethodPut,
			path:   "/items/" + id.String(),
			body:   map[string]string{"name": "Gadget"},
			setup: func(svc *mockItemService) {
				svc.On("Update", mock.Anything, mock.Anything, mock.Anything, id, mock.Anything).Return(nil, shared.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:   "delete",
			method: http.MethodDelete,
			path:   "/items/" + id.String(),
			setup: func(svc *mockItemService) {
				svc.On("Delete", mock.Anything, caller.companyID, id).Return(nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name:   "delete item in use",
			method: http.MethodDelete,
			path:   "/items/" + id.String(),
			setup: func(svc *mockItemService) {
				svc.On("Delete", mock.Anything, caller.companyID, id).Return(shared.ErrInvalidState)
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockItemService)
			tt.setup(svc)

			w := doRequest(t, newItemRouter(caller, svc), tt.method, tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
