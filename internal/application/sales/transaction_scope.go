package sales

import (
	"context"

	"github.com/bizledger/backend/internal/domain/catalog"
	"github.com/bizledger/backend/internal/domain/sales"
)

// TransactionScope runs a unit of work atomically. Recording or deleting a
// sales receipt moves stock, so the receipt and the items are written together.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories bound to the running transaction
type TransactionalRepositories interface {
	SalesReceiptRepo() sales.SalesReceiptRepository
	ItemRepo() catalog.ItemRepository
}

// NoOpTransactionScope runs the function against plain repositories.
// Used in tests and when the store has no transaction support.
type NoOpTransactionScope struct {
	receiptRepo sales.SalesReceiptRepository
	itemRepo    catalog.ItemRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(receiptRepo sales.SalesReceiptRepository, itemRepo catalog.ItemRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{receiptRepo: receiptRepo, itemRepo: itemRepo}
}

// Execute runs fn without a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// SalesReceiptRepo returns the sales receipt repository
func (s *NoOpTransactionScope) SalesReceiptRepo() sales.SalesReceiptRepository {
	return s.receiptRepo
}

// ItemRepo returns the item repository
func (s *NoOpTransactionScope) ItemRepo() catalog.ItemRepository {
	return s.itemRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
