package models

import (
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel holds the columns every table has
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (m *BaseModel) fromEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

func (m *BaseModel) entity() shared.BaseEntity {
	return shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

// AggregateModel adds the optimistic locking version
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

func (m *AggregateModel) fromAggregate(a shared.BaseAggregateRoot) {
	m.fromEntity(a.BaseEntity)
	m.Version = a.Version
}

func (m *AggregateModel) aggregate() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{BaseEntity: m.entity(), Version: m.Version}
}

// CompanyModel is embedded by every company-owned table
type CompanyModel struct {
	AggregateModel
	CompanyID uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid"`
}

func (m *CompanyModel) fromCompanyRoot(r shared.CompanyAggregateRoot) {
	m.fromAggregate(r.BaseAggregateRoot)
	m.CompanyID = r.CompanyID
	m.CreatedBy = r.CreatedBy
	m.UpdatedBy = r.UpdatedBy
}

func (m *CompanyModel) companyRoot() shared.CompanyAggregateRoot {
	return shared.CompanyAggregateRoot{
		BaseAggregateRoot: m.aggregate(),
		CompanyID:         m.CompanyID,
		CreatedBy:         m.CreatedBy,
		UpdatedBy:         m.UpdatedBy,
	}
}

// All lists every model, in dependency order, for AutoMigrate in tests and
// single-node sqlite runs. Postgres deployments use the SQL migrations.
func All() []any {
	return []any{
		&CompanyRecord{},
		&UserModel{},
		&CustomerModel{},
		&ItemModel{},
		&InvoiceModel{},
		&SalesReceiptModel{},
		&ExpenseModel{},
		&NotificationModel{},
	}
}
