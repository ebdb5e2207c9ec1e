package persistence

import (
	"context"
	"time"

	"github.com/bizledger/backend/internal/domain/notification"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/infrastructure/persistence/models"
	"github.com/bizledger/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormNotificationRepository implements notification.Repository using GORM.
// Rows with a NULL user_id are company broadcasts, visible to every user of
// the company and sharing one read state.
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// visibleTo narrows to the user's own notifications and the company broadcasts
func (r *GormNotificationRepository) visibleTo(ctx context.Context, companyID, userID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.NotificationModel{}).
		Scopes(tenant.Scope(companyID)).
		Where("(user_id = ? OR user_id IS NULL)", userID)
}

// FindByIDForUser finds a notification the user can see
func (r *GormNotificationRepository) FindByIDForUser(ctx context.Context, companyID, userID, id uuid.UUID) (*notification.Notification, error) {
	var model models.NotificationModel
	if err := r.visibleTo(ctx, companyID, userID).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindForUser lists the user's notifications, newest first
func (r *GormNotificationRepository) FindForUser(ctx context.Context, companyID, userID uuid.UUID, filter notification.Filter) ([]notification.Notification, int64, error) {
	filter.Normalize()
	query := r.visibleTo(ctx, companyID, userID)
	if filter.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notificationModels []models.NotificationModel
	if err := query.Order("created_at DESC").Order("id DESC").
		Offset(filter.Offset()).Limit(filter.PageSize).
		Find(&notificationModels).Error; err != nil {
		return nil, 0, err
	}
	out := make([]notification.Notification, len(notificationModels))
	for i := range notificationModels {
		out[i] = *notificationModels[i].ToDomain()
	}
	return out, total, nil
}

// CountUnread counts the unread notifications the user can see
func (r *GormNotificationRepository) CountUnread(ctx context.Context, companyID, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.visibleTo(ctx, companyID, userID).Where("is_read = ?", false).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a notification
func (r *GormNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Create(models.NotificationModelFromDomain(n)).Error
}

// Save updates a notification's read state
func (r *GormNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	res := r.db.WithContext(ctx).Model(&models.NotificationModel{}).
		Scopes(tenant.Scope(n.CompanyID)).
		Where("id = ?", n.ID).
		Updates(map[string]any{
			"is_read":    n.IsRead,
			"read_at":    n.ReadAt,
			"updated_at": n.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// MarkAllRead marks everything the user can see as read and returns how many rows changed
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, companyID, userID uuid.UUID, at time.Time) (int64, error) {
	res := r.visibleTo(ctx, companyID, userID).
		Where("is_read = ?", false).
		Updates(map[string]any{
			"is_read":    true,
			"read_at":    at,
			"updated_at": at,
		})
	return res.RowsAffected, res.Error
}

// DeleteForUser deletes a notification the user can see
func (r *GormNotificationRepository) DeleteForUser(ctx context.Context, companyID, userID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("(user_id = ? OR user_id IS NULL)", userID).
		Where("id = ?", id).
		Delete(&models.NotificationModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
