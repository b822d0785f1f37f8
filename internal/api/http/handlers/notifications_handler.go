package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vhu-platform/complaint-service/internal/api/dto"
	"github.com/vhu-platform/complaint-service/internal/auth"
	"github.com/vhu-platform/complaint-service/internal/service"
	"github.com/vhu-platform/complaint-service/pkg/util/errorutil"
)

// NotificationsHandler exposes the per-user notification feed.
type NotificationsHandler struct {
	notifications *service.NotificationService
}

func NewNotificationsHandler(notifications *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{notifications: notifications}
}

// List GET /api/notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("Not authorized to access this route.")
	}
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	unreadOnly := c.QueryBool("unreadOnly", false)

	notifications, total, unread, err := h.notifications.ListNotifications(c.Context(), principal.User.ID, unreadOnly, page, limit)
	if err != nil {
		return err
	}

	items := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		items = append(items, dto.NotificationFromDomain(&notifications[i]))
	}
	return c.JSON(fiber.Map{
		"success":       true,
		"notifications": items,
		"unreadCount":   unread,
		"pagination":    dto.NewPagination(total, page, limit),
	})
}

// MarkRead PUT /api/notifications/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("Not authorized to access this route.")
	}
	notification, err := h.notifications.MarkRead(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":      true,
		"notification": dto.NotificationFromDomain(notification),
	})
}

// MarkAllRead PUT /api/notifications/read-all.
func (h *NotificationsHandler) MarkAllRead(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("Not authorized to access this route.")
	}
	if err := h.notifications.MarkAllRead(c.Context(), principal.User.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "All notifications marked as read.",
	})
}

// Delete DELETE /api/notifications/:id.
func (h *NotificationsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("Not authorized to access this route.")
	}
	if err := h.notifications.DeleteNotification(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Notification deleted.",
	})
}
