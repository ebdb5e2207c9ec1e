package finance

import (
	"time"

	"github.com/bizledger/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest represents a request to record an expense
type CreateExpenseRequest struct {
	ExpenseNumber string          `json:"expense_number" binding:"omitempty,max=50"`
	Category      string          `json:"category" binding:"required"`
	VendorName    string          `json:"vendor_name" binding:"max=200"`
	Description   string          `json:"description" binding:"max=500"`
	Amount        decimal.Decimal `json:"amount"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	ExpenseDate   *time.Time      `json:"expense_date"`
	PaymentMethod string          `json:"payment_method"`
	Reference     string          `json:"reference" binding:"max=100"`
}

// UpdateExpenseRequest represents a partial update of an expense
type UpdateExpenseRequest struct {
	Category      *string          `json:"category"`
	VendorName    *string          `json:"vendor_name" binding:"omitempty,max=200"`
	Description   *string          `json:"description" binding:"omitempty,max=500"`
	Amount        *decimal.Decimal `json:"amount"`
	TaxAmount     *decimal.Decimal `json:"tax_amount"`
	ExpenseDate   *time.Time       `json:"expense_date"`
	PaymentMethod *string          `json:"payment_method"`
	Reference     *string          `json:"reference" binding:"omitempty,max=100"`
}

// ExpenseListFilter are the query parameters of the expense listing
type ExpenseListFilter struct {
	Search   string     `form:"search"`
	Category string     `form:"category"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ReceiptUploadRequest describes the file about to be uploaded
type ReceiptUploadRequest struct {
	FileName    string `json:"file_name" binding:"required,min=1,max=255"`
	ContentType string `json:"content_type" binding:"required"`
}

// ReceiptUploadResponse carries a presigned PUT URL
type ReceiptUploadResponse struct {
	UploadURL  string    `json:"upload_url"`
	StorageKey string    `json:"storage_key"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ReceiptURLResponse carries a presigned GET URL
type ReceiptURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID            uuid.UUID       `json:"id"`
	CompanyID     uuid.UUID       `json:"company_id"`
	ExpenseNumber string          `json:"expense_number"`
	Category      string          `json:"category"`
	VendorName    string          `json:"vendor_name"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Total         decimal.Decimal `json:"total"`
	ExpenseDate   time.Time       `json:"expense_date"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Reference     string          `json:"reference"`
	HasReceipt    bool            `json:"has_receipt"`
	CreatedBy     *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// ToExpenseResponse converts a domain Expense to ExpenseResponse
func ToExpenseResponse(e *finance.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:            e.ID,
		CompanyID:     e.CompanyID,
		ExpenseNumber: e.ExpenseNumber,
		Category:      e.Category.String(),
		VendorName:    e.VendorName,
		Description:   e.Description,
		Amount:        e.Amount,
		TaxAmount:     e.TaxAmount,
		Total:         e.Gross(),
		ExpenseDate:   e.ExpenseDate,
		PaymentMethod: e.PaymentMethod.String(),
		Reference:     e.Reference,
		HasReceipt:    e.HasReceipt(),
		CreatedBy:     e.CreatedBy,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
		Version:       e.Version,
	}
}

// ToExpenseResponses converts a slice of expenses
func ToExpenseResponses(expenses []finance.Expense) []ExpenseResponse {
	out := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		out[i] = ToExpenseResponse(&expenses[i])
	}
	return out
}
