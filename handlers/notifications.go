// notifications.go - Notification list and the unread badge endpoint

package handlers

import (
	"net/http"

	"go-library-backend/middleware"

	"github.com/gin-gonic/gin"
)

// Notifications shows everything for the user, newest first, and marks the
// listed messages as read.
func (h *Handler) Notifications(c *gin.Context) {
	user := middleware.CurrentUser(c)
	list, err := h.Library.ListAndMarkRead(c.Request.Context(), user.ID)
	if err != nil {
		internalError(c, err)
		return
	}
	h.render(c, "notifications.html", gin.H{"Notifications": list})
}

// NotificationCount is polled by the navbar badge.
func (h *Handler) NotificationCount(c *gin.Context) {
	user := middleware.CurrentUser(c)
	count, err := h.Library.UnreadCount(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not count notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}
