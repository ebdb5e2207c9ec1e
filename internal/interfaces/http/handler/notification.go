package handler

import (
	"context"

	"github.com/bizledger/backend/internal/application/notification"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// NotificationService serves the caller's inbox: own notifications plus company broadcasts
type NotificationService interface {
	List(ctx context.Context, companyID, userID uuid.UUID, filter notification.ListFilter) ([]notification.NotificationResponse, int64, error)
	UnreadCount(ctx context.Context, companyID, userID uuid.UUID) (*notification.UnreadCountResponse, error)
	MarkRead(ctx context.Context, companyID, userID, id uuid.UUID) (*notification.NotificationResponse, error)
	MarkAllRead(ctx context.Context, companyID, userID uuid.UUID) (*notification.MarkAllReadResponse, error)
	Delete(ctx context.Context, companyID, userID, id uuid.UUID) error
}

// NotificationHandler handles notification endpoints
type NotificationHandler struct {
	BaseHandler
	notificationService NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) List(c *gin.Context) {
	companyID, userID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter notification.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	items, total, err := h.notificationService.List(c.Request.Context(), companyID, userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, items, total, p, size)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	companyID, userID, ok := h.tenant(c)
	if !ok {
		return
	}

	resp, err := h.notificationService.UnreadCount(c.Request.Context(), companyID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	companyID, userID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	resp, err := h.notificationService.MarkRead(c.Request.Context(), companyID, userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	companyID, userID, ok := h.tenant(c)
	if !ok {
		return
	}

	resp, err := h.notificationService.MarkAllRead(c.Request.Context(), companyID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	companyID, userID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.Delete(c.Request.Context(), companyID, userID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
