package models

import (
	"github.com/bizledger/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ItemModel is the persistence model of a catalog item. SKU uniqueness per
// company is enforced by a partial index in the migrations; the check in the
// service covers sqlite.
type ItemModel struct {
	CompanyModel
	Name           string           `gorm:"type:varchar(200);not null"`
	SKU            string           `gorm:"column:sku;type:varchar(64);index"`
	Description    string           `gorm:"type:text"`
	Type           catalog.ItemType `gorm:"type:varchar(20);not null"`
	Rate           decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	TaxRate        decimal.Decimal  `gorm:"type:decimal(5,2);not null"`
	Unit           string           `gorm:"type:varchar(20)"`
	TrackInventory bool             `gorm:"not null;default:false"`
	QuantityOnHand decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	IsActive       bool             `gorm:"not null;index"`
}

func (ItemModel) TableName() string {
	return "items"
}

// ToDomain converts the model to an item
func (m *ItemModel) ToDomain() *catalog.Item {
	return &catalog.Item{
		CompanyAggregateRoot: m.companyRoot(),
		Name:                 m.Name,
		SKU:                  m.SKU,
		Description:          m.Description,
		Type:                 m.Type,
		Rate:                 m.Rate,
		TaxRate:              m.TaxRate,
		Unit:                 m.Unit,
		TrackInventory:       m.TrackInventory,
		QuantityOnHand:       m.QuantityOnHand,
		Active:               m.IsActive,
	}
}

// ItemModelFromDomain converts an item to its model
func ItemModelFromDomain(it *catalog.Item) *ItemModel {
	m := &ItemModel{
		Name:           it.Name,
		SKU:            it.SKU,
		Description:    it.Description,
		Type:           it.Type,
		Rate:           it.Rate,
		TaxRate:        it.TaxRate,
		Unit:           it.Unit,
		TrackInventory: it.TrackInventory,
		QuantityOnHand: it.QuantityOnHand,
		IsActive:       it.Active,
	}
	m.fromCompanyRoot(it.CompanyAggregateRoot)
	return m
}
