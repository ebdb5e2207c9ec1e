package catalog

import (
	"time"

	"github.com/bizledger/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateItemRequest represents a request to add an item to the catalog
type CreateItemRequest struct {
	Name           string           `json:"name" binding:"required,min=1,max=200"`
	SKU            string           `json:"sku" binding:"max=64"`
	Description    string           `json:"description"`
	Type           string           `json:"type" binding:"required,oneof=product service"`
	Rate           decimal.Decimal  `json:"rate"`
	TaxRate        decimal.Decimal  `json:"tax_rate"`
	Unit           string           `json:"unit" binding:"max=20"`
	TrackInventory bool             `json:"track_inventory"`
	QuantityOnHand *decimal.Decimal `json:"quantity_on_hand"`
}

// UpdateItemRequest represents a partial update of an item. Stock is not editable here.
type UpdateItemRequest struct {
	Name           *string          `json:"name" binding:"omitempty,min=1,max=200"`
	SKU            *string          `json:"sku" binding:"omitempty,max=64"`
	Description    *string          `json:"description"`
	Type           *string          `json:"type" binding:"omitempty,oneof=product service"`
	Rate           *decimal.Decimal `json:"rate"`
	TaxRate        *decimal.Decimal `json:"tax_rate"`
	Unit           *string          `json:"unit" binding:"omitempty,max=20"`
	TrackInventory *bool            `json:"track_inventory"`
	IsActive       *bool            `json:"is_active"`
}

// ItemListFilter are the query parameters of the item listing
type ItemListFilter struct {
	Search   string `form:"search"`
	Type     string `form:"type" binding:"omitempty,oneof=product service"`
	Active   *bool  `form:"is_active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ItemResponse represents an item in API responses
type ItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	CompanyID      uuid.UUID       `json:"company_id"`
	Name           string          `json:"name"`
	SKU            string          `json:"sku"`
	Description    string          `json:"description"`
	Type           string          `json:"type"`
	Rate           decimal.Decimal `json:"rate"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	Unit           string          `json:"unit"`
	TrackInventory bool            `json:"track_inventory"`
	QuantityOnHand decimal.Decimal `json:"quantity_on_hand"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Version        int             `json:"version"`
}

// ToItemResponse converts a domain Item to ItemResponse
func ToItemResponse(it *catalog.Item) ItemResponse {
	return ItemResponse{
		ID:             it.ID,
		CompanyID:      it.CompanyID,
		Name:           it.Name,
		SKU:            it.SKU,
		Description:    it.Description,
		Type:           string(it.Type),
		Rate:           it.Rate,
		TaxRate:        it.TaxRate,
		Unit:           it.Unit,
		TrackInventory: it.TrackInventory,
		QuantityOnHand: it.QuantityOnHand,
		IsActive:       it.Active,
		CreatedAt:      it.CreatedAt,
		UpdatedAt:      it.UpdatedAt,
		Version:        it.Version,
	}
}

// ToItemResponses converts a slice of items
func ToItemResponses(items []catalog.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i := range items {
		out[i] = ToItemResponse(&items[i])
	}
	return out
}
