package handlers

import (
	"net/http"

	"github.com/anonto42/gammy/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// NotificationHandler exposes the caller's notification inbox.
type NotificationHandler struct {
	notifier *services.Notifier
}

func NewNotificationHandler(notifier *services.Notifier) *NotificationHandler {
	return &NotificationHandler{notifier: notifier}
}

// RegisterNotificationRoutes registers inbox routes; every route requires auth.
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("", h.GetNotifications)
	g.GET("/unread", h.GetUnreadCount)
	g.PUT("/read-all", h.MarkAllAsRead)
	g.PUT("/:id/read", h.MarkAsRead)
	g.DELETE("/:id", h.DeleteNotification)
}

// GetNotifications returns the newest notifications of the caller.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	notifications, err := h.notifier.List(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return httpError(err, "Notification", "Failed to get notifications")
	}
	return c.JSON(http.StatusOK, notifications)
}

func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	count, err := h.notifier.UnreadCount(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return httpError(err, "Notification", "Failed to get unread count")
	}
	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	id, err := parseID(c, "id", "notification")
	if err != nil {
		return err
	}
	if err := h.notifier.MarkRead(c.Request().Context(), getUserIDFromContext(c), id); err != nil {
		return httpError(err, "Notification", "Failed to mark notification as read")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Notification marked as read"})
}

func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	if err := h.notifier.MarkAllRead(c.Request().Context(), getUserIDFromContext(c)); err != nil {
		return httpError(err, "Notification", "Failed to mark notifications as read")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "All notifications marked as read"})
}

func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	id, err := parseID(c, "id", "notification")
	if err != nil {
		return err
	}
	if err := h.notifier.Delete(c.Request().Context(), getUserIDFromContext(c), id); err != nil {
		return httpError(err, "Notification", "Failed to delete notification")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Notification deleted"})
}
