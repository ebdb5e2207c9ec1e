package notification

import (
	"context"
	"time"

	"github.com/bizledger/backend/internal/domain/notification"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationService serves a user's inbox: their own notifications plus company broadcasts
type NotificationService struct {
	repo   notification.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(repo notification.Repository, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// List returns a page of the user's notifications, newest first
func (s *NotificationService) List(ctx context.Context, companyID, userID uuid.UUID, filter ListFilter) ([]NotificationResponse, int64, error) {
	domainFilter := notification.Filter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  "created_at",
			OrderDir: "desc",
		},
		UnreadOnly: filter.UnreadOnly,
	}
	if filter.Type != "" {
		typ := notification.Type(filter.Type)
		if !typ.IsValid() {
			return nil, 0, shared.NewValidationError("type", "is not a known notification type")
		}
		domainFilter.Type = &typ
	}

	ns, total, err := s.repo.FindForUser(ctx, companyID, userID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToNotificationResponses(ns), total, nil
}

// UnreadCount returns how many visible notifications are unread
func (s *NotificationService) UnreadCount(ctx context.Context, companyID, userID uuid.UUID) (*UnreadCountResponse, error) {
	n, err := s.repo.CountUnread(ctx, companyID, userID)
	if err != nil {
		return nil, err
	}
	return &UnreadCountResponse{Count: n}, nil
}

// MarkRead marks one notification read. Marking an already read notification is a no-op.
func (s *NotificationService) MarkRead(ctx context.Context, companyID, userID, id uuid.UUID) (*NotificationResponse, error) {
	n, err := s.repo.FindByIDForUser(ctx, companyID, userID, id)
	if err != nil {
		return nil, err
	}
	if !n.IsRead {
		n.MarkRead(s.now())
		if err := s.repo.Save(ctx, n); err != nil {
			return nil, err
		}
	}
	resp := ToNotificationResponse(n)
	return &resp, nil
}

// MarkAllRead marks every visible unread notification read
func (s *NotificationService) MarkAllRead(ctx context.Context, companyID, userID uuid.UUID) (*MarkAllReadResponse, error) {
	updated, err := s.repo.MarkAllRead(ctx, companyID, userID, s.now())
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Notifications marked read",
		zap.String("user_id", userID.String()),
		zap.Int64("updated", updated))
	return &MarkAllReadResponse{Updated: updated}, nil
}

// Delete removes a notification visible to the user
func (s *NotificationService) Delete(ctx context.Context, companyID, userID, id uuid.UUID) error {
	return s.repo.DeleteForUser(ctx, companyID, userID, id)
}
