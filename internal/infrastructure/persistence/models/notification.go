package models

import (
	"time"

	"github.com/bizledger/backend/internal/domain/notification"
	"github.com/google/uuid"
)

// NotificationModel is the persistence model of a notification. A NULL
// user_id marks a company-wide broadcast.
type NotificationModel struct {
	BaseModel
	CompanyID  uuid.UUID         `gorm:"type:uuid;not null;index:idx_notifications_company_user,priority:1"`
	UserID     *uuid.UUID        `gorm:"type:uuid;index:idx_notifications_company_user,priority:2"`
	Type       notification.Type `gorm:"type:varchar(30);not null"`
	Title      string            `gorm:"type:varchar(200);not null"`
	Message    string            `gorm:"type:text"`
	EntityType string            `gorm:"type:varchar(50)"`
	EntityID   *uuid.UUID        `gorm:"type:uuid"`
	IsRead     bool              `gorm:"not null;default:false"`
	ReadAt     *time.Time
}

func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the model to a notification
func (m *NotificationModel) ToDomain() *notification.Notification {
	return &notification.Notification{
		BaseEntity: m.entity(),
		CompanyID:  m.CompanyID,
		UserID:     m.UserID,
		Type:       m.Type,
		Title:      m.Title,
		Message:    m.Message,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		IsRead:     m.IsRead,
		ReadAt:     m.ReadAt,
	}
}

// NotificationModelFromDomain converts a notification to its model
func NotificationModelFromDomain(n *notification.Notification) *NotificationModel {
	m := &NotificationModel{
		CompanyID:  n.CompanyID,
		UserID:     n.UserID,
		Type:       n.Type,
		Title:      n.Title,
		Message:    n.Message,
		EntityType: n.EntityType,
		EntityID:   n.EntityID,
		IsRead:     n.IsRead,
		ReadAt:     n.ReadAt,
	}
	m.fromEntity(n.BaseEntity)
	return m
}
