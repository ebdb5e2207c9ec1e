package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemType distinguishes stocked goods from services
type ItemType string

const (
	ItemTypeProduct ItemType = "product"
	ItemTypeService ItemType = "service"
)

// IsValid checks if the item type is valid
func (t ItemType) IsValid() bool {
	return t == ItemTypeProduct || t == ItemTypeService
}

var (
	hundred = decimal.NewFromInt(100)

	ErrSKUTaken = shared.NewDomainError("ALREADY_EXISTS", "SKU is already used by another item")
)

// Item is something the company sells
type Item struct {
	shared.CompanyAggregateRoot
	Name           string
	SKU            string
	Description    string
	Type           ItemType
	Rate           decimal.Decimal
	TaxRate        decimal.Decimal // percent, 0-100
	Unit           string
	TrackInventory bool
	QuantityOnHand decimal.Decimal
	Active         bool
}

// ItemDetails carries the editable fields of an item
type ItemDetails struct {
	Name           string
	SKU            string
	Description    string
	Type           ItemType
	Rate           decimal.Decimal
	TaxRate        decimal.Decimal
	Unit           string
	TrackInventory bool
}

// NewItem creates an active catalog item
func NewItem(companyID uuid.UUID, d ItemDetails, openingQuantity decimal.Decimal) (*Item, error) {
	it := &Item{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		QuantityOnHand:       decimal.Zero,
		Active:               true,
	}
	if err := it.apply(d); err != nil {
		return nil, err
	}
	if openingQuantity.IsNegative() {
		return nil, shared.NewValidationError("quantity_on_hand", "cannot be negative")
	}
	if it.TrackInventory {
		it.QuantityOnHand = openingQuantity
	}
	return it, nil
}

// Update replaces the item's details. Stock on hand is only changed through stock movements.
func (it *Item) Update(d ItemDetails) error {
	if err := it.apply(d); err != nil {
		return err
	}
	it.UpdatedAt = time.Now()
	it.IncrementVersion()
	return nil
}

func (it *Item) apply(d ItemDetails) error {
	v := &shared.ValidationError{}
	name := strings.TrimSpace(d.Name)
	if name == "" {
		v.Add("name", "is required")
	} else if len(name) > 200 {
		v.Add("name", "cannot exceed 200 characters")
	}
	if len(d.SKU) > 64 {
		v.Add("sku", "cannot exceed 64 characters")
	}
	if !d.Type.IsValid() {
		v.Add("type", "must be product or service")
	}
	if d.Rate.IsNegative() {
		v.Add("rate", "cannot be negative")
	}
	if d.TaxRate.IsNegative() || d.TaxRate.GreaterThan(hundred) {
		v.Add("tax_rate", "must be between 0 and 100")
	}
	if d.Type == ItemTypeService && d.TrackInventory {
		v.Add("track_inventory", "services cannot track inventory")
	}
	if err := v.Err(); err != nil {
		return err
	}

	it.Name = name
	it.SKU = strings.ToUpper(strings.TrimSpace(d.SKU))
	it.Description = d.Description
	it.Type = d.Type
	it.Rate = d.Rate
	it.TaxRate = d.TaxRate
	it.Unit = strings.TrimSpace(d.Unit)
	it.TrackInventory = d.TrackInventory
	return nil
}

// TaxFor returns the tax charged on a line amount at the item's rate
func (it *Item) TaxFor(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(it.TaxRate).Div(hundred).Round(2)
}

// RemoveStock decrements stock for a sale. Untracked items ignore the call.
func (it *Item) RemoveStock(qty decimal.Decimal) error {
	if !it.TrackInventory {
		return nil
	}
	if qty.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if it.QuantityOnHand.LessThan(qty) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Insufficient stock for %s: %s on hand, %s requested", it.Name, it.QuantityOnHand, qty))
	}
	it.QuantityOnHand = it.QuantityOnHand.Sub(qty)
	it.UpdatedAt = time.Now()
	it.IncrementVersion()
	return nil
}

// ReturnStock puts stock back, e.g. when a sales receipt is deleted
func (it *Item) ReturnStock(qty decimal.Decimal) {
	if !it.TrackInventory || qty.LessThanOrEqual(decimal.Zero) {
		return
	}
	it.QuantityOnHand = it.QuantityOnHand.Add(qty)
	it.UpdatedAt = time.Now()
	it.IncrementVersion()
}

// Deactivate hides the item from new documents
func (it *Item) Deactivate() {
	it.Active = false
	it.UpdatedAt = time.Now()
	it.IncrementVersion()
}

// Activate makes the item available on new documents again
func (it *Item) Activate() {
	it.Active = true
	it.UpdatedAt = time.Now()
	it.IncrementVersion()
}
