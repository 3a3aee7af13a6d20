package handlers

import (
	"net/http"

	"github.com/anonto42/pixgram/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	svc *services.Service
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(svc *services.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/grouped", h.GetGroupedNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
}

// GetNotifications returns a page of notifications, newest first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	skip, limit := pagination(c)
	notifications, total, err := h.svc.ListNotifications(c.Request().Context(), getUserIDFromContext(c), skip, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusOK, echo.Map{
		"notifications": notifications,
		"total":         total,
		"hasMore":       int64(skip+len(notifications)) < total,
	})
}

// GetGroupedNotifications returns notifications bucketed by age
func (h *NotificationHandler) GetGroupedNotifications(c echo.Context) error {
	grouped, err := h.svc.GroupedNotifications(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusOK, grouped)
}

// GetUnreadCount returns the number of unread notifications
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	count, err := h.svc.UnreadCount(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusOK, echo.Map{"count": count})
}

// MarkAsRead marks a single notification as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	notificationID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.MarkRead(c.Request().Context(), getUserIDFromContext(c), notificationID); err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusOK, echo.Map{"read": true})
}

// MarkAllAsRead marks every notification of the caller as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	updated, err := h.svc.MarkAllRead(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusOK, echo.Map{"updated": updated})
}
