package notification

import (
	"strings"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Type classifies a notification
type Type string

const (
	TypeInvoicePaid     Type = "invoice_paid"
	TypeInvoiceOverdue  Type = "invoice_overdue"
	TypePaymentReceived Type = "payment_received"
	TypeInvoiceSent     Type = "invoice_sent"
	TypeSystem          Type = "system"
)

// IsValid checks if the type is valid
func (t Type) IsValid() bool {
	switch t {
	case TypeInvoicePaid, TypeInvoiceOverdue, TypePaymentReceived, TypeInvoiceSent, TypeSystem:
		return true
	}
	return false
}

// Notification is an in-app message for one user or, when UserID is nil, for the whole company
type Notification struct {
	shared.BaseEntity
	CompanyID  uuid.UUID
	UserID     *uuid.UUID
	Type       Type
	Title      string
	Message    string
	EntityType string
	EntityID   *uuid.UUID
	IsRead     bool
	ReadAt     *time.Time
}

// New creates an unread notification
func New(companyID uuid.UUID, userID *uuid.UUID, typ Type, title, message string) (*Notification, error) {
	v := &shared.ValidationError{}
	if companyID == uuid.Nil {
		v.Add("company_id", "is required")
	}
	if !typ.IsValid() {
		v.Add("type", "is not a known notification type")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		v.Add("title", "is required")
	} else if len(title) > 200 {
		v.Add("title", "cannot exceed 200 characters")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return &Notification{
		BaseEntity: shared.NewBaseEntity(),
		CompanyID:  companyID,
		UserID:     userID,
		Type:       typ,
		Title:      title,
		Message:    message,
	}, nil
}

// About links the notification to the entity it describes
func (n *Notification) About(entityType string, entityID uuid.UUID) *Notification {
	n.EntityType = entityType
	n.EntityID = &entityID
	return n
}

// IsBroadcast reports whether every user of the company sees the notification
func (n *Notification) IsBroadcast() bool {
	return n.UserID == nil
}

// VisibleTo reports whether the user may see the notification
func (n *Notification) VisibleTo(companyID, userID uuid.UUID) bool {
	if n.CompanyID != companyID {
		return false
	}
	return n.UserID == nil || *n.UserID == userID
}

// MarkRead marks the notification read; repeated calls keep the first ReadAt
func (n *Notification) MarkRead(now time.Time) {
	if n.IsRead {
		return
	}
	n.IsRead = true
	n.ReadAt = &now
	n.Touch(now)
}
