package notification

import (
	"context"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Filter narrows notification listings
type Filter struct {
	shared.Filter
	UnreadOnly bool
	Type       *Type
}

// Repository persists notifications. Listing for a user includes the company broadcasts.
type Repository interface {
	FindByIDForUser(ctx context.Context, companyID, userID, id uuid.UUID) (*Notification, error)
	FindForUser(ctx context.Context, companyID, userID uuid.UUID, filter Filter) ([]Notification, int64, error)
	CountUnread(ctx context.Context, companyID, userID uuid.UUID) (int64, error)
	Create(ctx context.Context, n *Notification) error
	Save(ctx context.Context, n *Notification) error
	MarkAllRead(ctx context.Context, companyID, userID uuid.UUID, at time.Time) (int64, error)
	DeleteForUser(ctx context.Context, companyID, userID, id uuid.UUID) error
}
