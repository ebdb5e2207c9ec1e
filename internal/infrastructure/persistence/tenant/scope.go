// Package tenant keeps company data apart at the repository layer.
//
// Every company-owned table carries a company_id column. Repositories narrow
// their statements with Scope, and RegisterGuard installs GORM callbacks that
// reject any query, update or delete against a guarded table that lacks a
// company_id condition, so a forgotten scope fails loudly instead of leaking
// another company's rows.
//
//	db.WithContext(ctx).Scopes(tenant.Scope(companyID)).Find(&invoices)
package tenant

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Column is the company key on every company-owned table
const Column = "company_id"

var (
	// ErrCompanyRequired is returned when a statement is scoped to the nil company
	ErrCompanyRequired = errors.New("company_id is required")

	// ErrUnscopedStatement is returned by the guard for statements with no company condition
	ErrUnscopedStatement = errors.New("statement on company-owned table has no company_id condition")
)

// CompanyOwnedTables lists the tables the guard protects. Users are excluded
// because sign-in looks them up by email across companies.
var CompanyOwnedTables = []string{
	"customers",
	"items",
	"invoices",
	"sales_receipts",
	"expenses",
	"notifications",
}

// Scope restricts a statement to one company
func Scope(companyID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if companyID == uuid.Nil {
			_ = db.AddError(ErrCompanyRequired)
			return db
		}
		return db.Where(clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: Column},
			Value:  companyID,
		})
	}
}

// SkipGuard marks a statement as intentionally spanning companies.
// Only maintenance paths (migrations, operator commands) should need it.
func SkipGuard(db *gorm.DB) *gorm.DB {
	return db.Set(skipGuardKey, true)
}
