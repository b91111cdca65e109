package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/okwaro/sokopesa/internal/utils"
)

// ListNotifications returns the feed, most recent first, with the unread
// count for the badge
func (h *EscrowHandler) ListNotifications(c echo.Context) error {
	return utils.SuccessResponse(c, http.StatusOK, "", map[string]interface{}{
		"notifications": h.dispatcher.List(),
		"unread_count":  h.dispatcher.UnreadCount(),
	})
}

// MarkNotificationRead marks one notification read
func (h *EscrowHandler) MarkNotificationRead(c echo.Context) error {
	h.dispatcher.MarkRead(c.Param("id"))
	return utils.SuccessResponse(c, http.StatusOK, "", nil)
}

// MarkAllNotificationsRead marks the whole feed read
func (h *EscrowHandler) MarkAllNotificationsRead(c echo.Context) error {
	h.dispatcher.MarkAllRead()
	return utils.SuccessResponse(c, http.StatusOK, "", nil)
}

// RemoveNotification deletes one notification from the feed
func (h *EscrowHandler) RemoveNotification(c echo.Context) error {
	h.dispatcher.Remove(c.Param("id"))
	return utils.SuccessResponse(c, http.StatusOK, "", nil)
}
