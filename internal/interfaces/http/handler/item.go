package handler

import (
	"context"

	"github.com/bizledger/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ItemService is the catalog use case consumed by ItemHandler
type ItemService interface {
	Create(ctx context.Context, companyID, createdBy uuid.UUID, req catalog.CreateItemRequest) (*catalog.ItemResponse, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*catalog.ItemResponse, error)
	List(ctx context.Context, companyID uuid.UUID, filter catalog.ItemListFilter) ([]catalog.ItemResponse, int64, error)
	Update(ctx context.Context, companyID, updatedBy, id uuid.UUID, req catalog.UpdateItemRequest) (*catalog.ItemResponse, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

// ItemHandler handles catalog item endpoints
type ItemHandler struct {
	BaseHandler
	itemService ItemService
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(itemService ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

func (h *ItemHandler) Create(c *gin.Context) {
	companyID, userID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req catalog.CreateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.itemService.Create(c.Request.Context(), companyID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

func (h *ItemHandler) GetByID(c *gin.Context) {
	companyID, _, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	item, err := h.itemService.GetByID(c.Request.Context(), companyID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

func (h *ItemHandler) List(c *gin.Context) {
	companyID, _, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter catalog.ItemListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	items, total, err := h.itemService.List(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, items, total, p, size)
}

func (h *ItemHandler) Update(c *gin.Context) {
	companyID, userID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req catalog.UpdateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.itemService.Update(c.Request.Context(), companyID, userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

func (h *ItemHandler) Delete(c *gin.Context) {
	companyID, _, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.itemService.Delete(c.Request.Context(), companyID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
