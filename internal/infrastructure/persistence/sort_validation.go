package persistence

import (
	"strings"

	"github.com/bizledger/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"name":          true,
	"email":         true,
	"role":          true,
	"last_login_at": true,
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"name":         true,
	"email":        true,
	"company_name": true,
}

// ItemSortFields contains allowed sort fields for items
var ItemSortFields = map[string]bool{
	"created_at":       true,
	"updated_at":       true,
	"name":             true,
	"sku":              true,
	"rate":             true,
	"quantity_on_hand": true,
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"created_at":     true,
	"invoice_number": true,
	"invoice_date":   true,
	"due_date":       true,
	"customer_name":  true,
	"total":          true,
	"balance_due":    true,
	"status":         true,
}

// SalesReceiptSortFields contains allowed sort fields for sales receipts
var SalesReceiptSortFields = map[string]bool{
	"created_at":           true,
	"sales_receipt_number": true,
	"receipt_date":         true,
	"customer_name":        true,
	"total":                true,
}

// ExpenseSortFields contains allowed sort fields for expenses
var ExpenseSortFields = map[string]bool{
	"created_at":     true,
	"expense_number": true,
	"expense_date":   true,
	"category":       true,
	"vendor_name":    true,
	"amount":         true,
}

// paginate applies the whitelisted ordering and the page window of a normalized filter
func paginate(query *gorm.DB, f shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(f.OrderBy, allowed, defaultField)
	dir := ValidateSortOrder(f.OrderDir)
	return query.Order(field + " " + dir).Order("id " + dir).Offset(f.Offset()).Limit(f.PageSize)
}

// searchPattern builds a case-insensitive LIKE pattern, escaping wildcards in the term
func searchPattern(term string) string {
	return "%" + escapeLike(strings.ToLower(strings.TrimSpace(term))) + "%"
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
