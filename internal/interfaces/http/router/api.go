package router

import (
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/interfaces/http/handler"
	"github.com/bizledger/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers are the HTTP handlers mounted under the API prefix
type Handlers struct {
	Auth         *handler.AuthHandler
	Company      *handler.CompanyHandler
	User         *handler.UserHandler
	Customer     *handler.CustomerHandler
	Item         *handler.ItemHandler
	Invoice      *handler.InvoiceHandler
	SalesReceipt *handler.SalesReceiptHandler
	Expense      *handler.ExpenseHandler
	Report       *handler.ReportHandler
	Notification *handler.NotificationHandler
}

// APIGroups builds one DomainGroup per resource with its permission guards.
// authLimit is applied to login and refresh; nil disables it.
func APIGroups(h Handlers, authLimit gin.HandlerFunc) []*DomainGroup {
	can := middleware.RequirePermission

	limited := func(next gin.HandlerFunc) []gin.HandlerFunc {
		if authLimit == nil {
			return []gin.HandlerFunc{next}
		}
		return []gin.HandlerFunc{authLimit, next}
	}

	auth := NewDomainGroup("auth", "/auth")
	auth.POST("/login", limited(h.Auth.Login)...).
		POST("/refresh", limited(h.Auth.RefreshToken)...).
		POST("/logout", h.Auth.Logout).
		GET("/me", h.Auth.GetCurrentUser).
		PUT("/password", h.Auth.ChangePassword)

	company := NewDomainGroup("company", "/company")
	company.GET("", h.Company.Get).
		PUT("", can(identity.PermManageCompany), h.Company.Update)

	users := NewDomainGroup("users", "/users").Use(can(identity.PermManageUsers))
	users.GET("", h.User.List).
		POST("", h.User.Create).
		GET("/:id", h.User.GetByID).
		PUT("/:id", h.User.Update).
		DELETE("/:id", h.User.Delete).
		PATCH("/:id/role", h.User.ChangeRole)

	customers := NewDomainGroup("customers", "/customers")
	customers.GET("", can(identity.PermViewCustomer), h.Customer.List).
		POST("", can(identity.PermCreateCustomer), h.Customer.Create).
		GET("/:id", can(identity.PermViewCustomer), h.Customer.GetByID).
		PUT("/:id", can(identity.PermEditCustomer), h.Customer.Update).
		DELETE("/:id", can(identity.PermDeleteCustomer), h.Customer.Delete)

	items := NewDomainGroup("items", "/items")
	items.GET("", can(identity.PermViewItem), h.Item.List).
		POST("", can(identity.PermCreateItem), h.Item.Create).
		GET("/:id", can(identity.PermViewItem), h.Item.GetByID).
		PUT("/:id", can(identity.PermEditItem), h.Item.Update).
		DELETE("/:id", can(identity.PermDeleteItem), h.Item.Delete)

	invoices := NewDomainGroup("invoices", "/invoices")
	invoices.GET("", can(identity.PermViewInvoice), h.Invoice.List).
		POST("", can(identity.PermCreateInvoice), h.Invoice.Create).
		GET("/:id", can(identity.PermViewInvoice), h.Invoice.GetByID).
		PUT("/:id", can(identity.PermEditInvoice), h.Invoice.Update).
		DELETE("/:id", can(identity.PermDeleteInvoice), h.Invoice.Delete).
		PATCH("/:id/send", can(identity.PermSendInvoice), h.Invoice.Send).
		PATCH("/:id/cancel", can(identity.PermCancelInvoice), h.Invoice.Cancel).
		POST("/:id/payments", can(identity.PermRecordPayment), h.Invoice.RecordPayment).
		GET("/:id/payments", can(identity.PermViewInvoice), h.Invoice.ListPayments).
		GET("/:id/pdf", can(identity.PermViewInvoice), h.Invoice.PDF)

	receipts := NewDomainGroup("sales-receipts", "/sales-receipts")
	receipts.GET("", can(identity.PermViewSalesReceipt), h.SalesReceipt.List).
		POST("", can(identity.PermCreateSalesReceipt), h.SalesReceipt.Create).
		GET("/:id", can(identity.PermViewSalesReceipt), h.SalesReceipt.GetByID).
		PATCH("/:id", can(identity.PermCreateSalesReceipt), h.SalesReceipt.UpdateNotes).
		PUT("/:id", can(identity.PermCreateSalesReceipt), h.SalesReceipt.UpdateNotes).
		DELETE("/:id", can(identity.PermDeleteSalesReceipt), h.SalesReceipt.Delete).
		GET("/:id/pdf", can(identity.PermViewSalesReceipt), h.SalesReceipt.PDF)

	expenses := NewDomainGroup("expenses", "/expenses")
	expenses.GET("", can(identity.PermViewExpense), h.Expense.List).
		POST("", can(identity.PermCreateExpense), h.Expense.Create).
		GET("/:id", can(identity.PermViewExpense), h.Expense.GetByID).
		PUT("/:id", can(identity.PermEditExpense), h.Expense.Update).
		DELETE("/:id", can(identity.PermDeleteExpense), h.Expense.Delete).
		POST("/:id/receipt-upload-url", can(identity.PermEditExpense), h.Expense.ReceiptUploadURL).
		GET("/:id/receipt-url", can(identity.PermViewExpense), h.Expense.ReceiptURL)

	reports := NewDomainGroup("reports", "/reports").Use(can(identity.PermViewReports))
	reports.GET("/dashboard", h.Report.Dashboard).
		GET("/sales-summary", h.Report.SalesSummary).
		GET("/aging", h.Report.Aging).
		GET("/expenses-by-category", h.Report.ExpensesByCategory).
		GET("/top-customers", h.Report.TopCustomers).
		GET("/profit-loss", h.Report.ProfitLoss).
		POST("/refresh", h.Report.Refresh)

	notifications := NewDomainGroup("notifications", "/notifications").Use(can(identity.PermViewNotifications))
	notifications.GET("", h.Notification.List).
		GET("/unread-count", h.Notification.UnreadCount).
		PATCH("/read-all", h.Notification.MarkAllRead).
		PATCH("/:id/read", h.Notification.MarkRead).
		DELETE("/:id", h.Notification.Delete)

	return []*DomainGroup{auth, company, users, customers, items, invoices, receipts, expenses, reports, notifications}
}

// RegisterAPI mounts every API group on r
func RegisterAPI(r *Router, h Handlers, authLimit gin.HandlerFunc) *Router {
	for _, g := range APIGroups(h, authLimit) {
		r.Register(g)
	}
	return r
}
