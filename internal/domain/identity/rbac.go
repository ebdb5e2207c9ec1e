package identity

var (
	viewAll = NewPermissionSet(
		PermViewInvoice, PermViewSalesReceipt, PermViewCustomer, PermViewItem,
		PermViewExpense, PermViewNotifications,
	)

	documentWrite = NewPermissionSet(
		PermCreateInvoice, PermEditInvoice, PermSendInvoice, PermCancelInvoice, PermRecordPayment,
		PermCreateSalesReceipt, PermCreateExpense, PermEditExpense,
	)

	masterDataWrite = NewPermissionSet(
		PermCreateCustomer, PermEditCustomer, PermCreateItem, PermEditItem,
	)

	deletes = NewPermissionSet(
		PermDeleteInvoice, PermDeleteSalesReceipt, PermDeleteCustomer, PermDeleteItem, PermDeleteExpense,
	)

	reporting = NewPermissionSet(PermViewReports, PermExportReports)

	adminPerms = viewAll.Union(documentWrite).Union(masterDataWrite).Union(deletes).Union(reporting).
		Union(NewPermissionSet(PermManageUsers))

	accountantPerms = viewAll.Union(documentWrite).Union(reporting)

	staffPerms = viewAll.Without(PermViewExpense).Union(NewPermissionSet(
		PermCreateInvoice, PermCreateSalesReceipt, PermCreateCustomer, PermEditCustomer,
	))
)

// Permissions returns the fixed permission set granted to the role.
// Unknown roles get the empty set.
func (r Role) Permissions() PermissionSet {
	switch r {
	case RoleSuperAdmin:
		return FullPermissionSet()
	case RoleCompanyAdmin:
		return FullPermissionSet().Without(PermManageCompanies)
	case RoleAdmin:
		return adminPerms
	case RoleAccountant:
		return accountantPerms
	case RoleStaff:
		return staffPerms
	}
	return 0
}

// Has reports whether the role grants p
func (r Role) Has(p Permission) bool {
	return r.Permissions().Has(p)
}

// Principal is anything that carries a role and an active flag,
// typically a *User or the claims of an authenticated request.
type Principal interface {
	GetRole() Role
	IsActive() bool
}

// Can reports whether principal may perform p.
// A nil or inactive principal can do nothing.
func Can(principal Principal, p Permission) bool {
	if principal == nil || !principal.IsActive() {
		return false
	}
	return principal.GetRole().Has(p)
}
