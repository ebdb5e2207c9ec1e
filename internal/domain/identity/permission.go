package identity

import (
	"math/bits"
	"sort"
)

// Permission is a coarse action token checked by route guards.
// The set is closed: only the constants below exist.
type Permission uint8

const (
	PermViewInvoice Permission = iota
	PermCreateInvoice
	PermEditInvoice
	PermDeleteInvoice
	PermSendInvoice
	PermCancelInvoice
	PermRecordPayment

	PermViewSalesReceipt
	PermCreateSalesReceipt
	PermDeleteSalesReceipt

	PermViewCustomer
	PermCreateCustomer
	PermEditCustomer
	PermDeleteCustomer

	PermViewItem
	PermCreateItem
	PermEditItem
	PermDeleteItem

	PermViewExpense
	PermCreateExpense
	PermEditExpense
	PermDeleteExpense

	PermViewReports
	PermExportReports
	PermViewNotifications

	PermManageUsers
	PermManageCompany
	PermManageSettings
	PermManageCompanies

	permissionCount
)

var permissionTokens = [permissionCount]string{
	PermViewInvoice:        "view_invoice",
	PermCreateInvoice:      "create_invoice",
	PermEditInvoice:        "edit_invoice",
	PermDeleteInvoice:      "delete_invoice",
	PermSendInvoice:        "send_invoice",
	PermCancelInvoice:      "cancel_invoice",
	PermRecordPayment:      "record_payment",
	PermViewSalesReceipt:   "view_sales_receipt",
	PermCreateSalesReceipt: "create_sales_receipt",
	PermDeleteSalesReceipt: "delete_sales_receipt",
	PermViewCustomer:       "view_customer",
	PermCreateCustomer:     "create_customer",
	PermEditCustomer:       "edit_customer",
	PermDeleteCustomer:     "delete_customer",
	PermViewItem:           "view_item",
	PermCreateItem:         "create_item",
	PermEditItem:           "edit_item",
	PermDeleteItem:         "delete_item",
	PermViewExpense:        "view_expense",
	PermCreateExpense:      "create_expense",
	PermEditExpense:        "edit_expense",
	PermDeleteExpense:      "delete_expense",
	PermViewReports:        "view_reports",
	PermExportReports:      "export_reports",
	PermViewNotifications:  "view_notifications",
	PermManageUsers:        "manage_users",
	PermManageCompany:      "manage_company",
	PermManageSettings:     "manage_settings",
	PermManageCompanies:    "manage_companies",
}

var permissionByToken = func() map[string]Permission {
	m := make(map[string]Permission, permissionCount)
	for p := Permission(0); p < permissionCount; p++ {
		m[permissionTokens[p]] = p
	}
	return m
}()

// String returns the permission token, e.g. "delete_invoice"
func (p Permission) String() string {
	if !p.IsValid() {
		return "unknown"
	}
	return permissionTokens[p]
}

// IsValid reports whether p is one of the defined permissions
func (p Permission) IsValid() bool {
	return p < permissionCount
}

// ParsePermission resolves a token to its Permission
func ParsePermission(token string) (Permission, bool) {
	p, ok := permissionByToken[token]
	return p, ok
}

// AllPermissions returns every defined permission in declaration order
func AllPermissions() []Permission {
	all := make([]Permission, 0, permissionCount)
	for p := Permission(0); p < permissionCount; p++ {
		all = append(all, p)
	}
	return all
}

// PermissionSet is an immutable set of permissions backed by a bitmask
type PermissionSet uint64

// NewPermissionSet builds a set from the given permissions. Invalid values are ignored.
func NewPermissionSet(perms ...Permission) PermissionSet {
	var s PermissionSet
	for _, p := range perms {
		if p.IsValid() {
			s |= 1 << p
		}
	}
	return s
}

// FullPermissionSet contains every defined permission
func FullPermissionSet() PermissionSet {
	return PermissionSet(1<<permissionCount - 1)
}

// Has reports whether p is in the set
func (s PermissionSet) Has(p Permission) bool {
	return p.IsValid() && s&(1<<p) != 0
}

// Union returns the set of permissions present in either set
func (s PermissionSet) Union(other PermissionSet) PermissionSet {
	return s | other
}

// Without returns the set minus the given permissions
func (s PermissionSet) Without(perms ...Permission) PermissionSet {
	return s &^ NewPermissionSet(perms...)
}

// Len returns the number of permissions in the set
func (s PermissionSet) Len() int {
	return bits.OnesCount64(uint64(s))
}

// List returns the permissions in declaration order
func (s PermissionSet) List() []Permission {
	out := make([]Permission, 0, s.Len())
	for p := Permission(0); p < permissionCount; p++ {
		if s.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// Tokens returns the sorted permission tokens, suitable for API responses
func (s PermissionSet) Tokens() []string {
	perms := s.List()
	tokens := make([]string, len(perms))
	for i, p := range perms {
		tokens[i] = p.String()
	}
	sort.Strings(tokens)
	return tokens
}
