package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"gharbazaar/internal/domain"
	"gharbazaar/internal/middleware"
	"gharbazaar/internal/service/notification"
)

type NotificationHandler struct {
	notificationService notification.Service
}

func NewNotificationHandler(notificationService notification.Service) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	params := domain.DefaultPagination()
	if err := c.QueryParser(&params); err != nil {
		return middleware.BadRequest("Invalid pagination parameters")
	}
	params.Validate()

	unreadOnly := c.QueryBool("unread_only", false)

	result, err := h.notificationService.List(c.Context(), middleware.GetCurrentUserID(c), unreadOnly, params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	count, err := h.notificationService.GetUnreadCount(c.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"unread_count": count})
}

func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid notification id")
	}

	if err := h.notificationService.MarkAsRead(c.Context(), id, middleware.GetCurrentUserID(c)); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Notification marked as read"})
}

func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	if err := h.notificationService.MarkAllAsRead(c.Context(), middleware.GetCurrentUserID(c)); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "All notifications marked as read"})
}
