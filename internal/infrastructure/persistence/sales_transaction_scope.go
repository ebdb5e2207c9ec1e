package persistence

import (
	"context"

	appsales "github.com/bizledger/backend/internal/application/sales"
	"github.com/bizledger/backend/internal/domain/catalog"
	"github.com/bizledger/backend/internal/domain/sales"
	"gorm.io/gorm"
)

// GormSalesTransactionScope runs sales receipt writes and stock movements in one database transaction
type GormSalesTransactionScope struct {
	db *gorm.DB
}

// NewGormSalesTransactionScope creates a new GormSalesTransactionScope
func NewGormSalesTransactionScope(db *gorm.DB) *GormSalesTransactionScope {
	return &GormSalesTransactionScope{db: db}
}

// Execute runs fn inside a transaction; an error from fn rolls it back
func (s *GormSalesTransactionScope) Execute(ctx context.Context, fn func(repos appsales.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormSalesRepositories{tx: tx})
	})
}

type gormSalesRepositories struct {
	tx *gorm.DB
}

func (r *gormSalesRepositories) SalesReceiptRepo() sales.SalesReceiptRepository {
	return NewGormSalesReceiptRepository(r.tx)
}

func (r *gormSalesRepositories) ItemRepo() catalog.ItemRepository {
	return NewGormItemRepository(r.tx)
}

var _ appsales.TransactionScope = (*GormSalesTransactionScope)(nil)
var _ appsales.TransactionalRepositories = (*gormSalesRepositories)(nil)
