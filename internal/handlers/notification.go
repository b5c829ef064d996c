package handlers

import (
	"errors"

	"earnsure/internal/repositories"
	"earnsure/internal/services/notification"
	"earnsure/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	notificationService notification.Service
}

func NewNotificationHandler(notificationService notification.Service) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// ListNotifications returns the user's notifications, newest first.
func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	p := utils.GetPagination(c, 1, 20)

	notifs, err := h.notificationService.ListByUser(c.Context(), claims.UserID, p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to load notifications")
	}

	return utils.Success(c, fiber.Map{
		"notifications": notifs,
		"page":          p.Page,
		"limit":         p.Limit,
	})
}

// MarkRead flags one of the user's notifications as read.
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	id := c.Params("id")
	if id == "" {
		return utils.BadRequest(c, "Notification ID is required")
	}

	if err := h.notificationService.MarkRead(c.Context(), claims.UserID, id); err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return utils.NotFound(c, "Notification not found")
		}
		return utils.InternalError(c, "Failed to mark notification read")
	}

	return utils.Success(c, fiber.Map{"read": true})
}
