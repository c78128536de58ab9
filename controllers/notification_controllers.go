package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-dashboard/notifications"
	"github.com/yeremiapane/restaurant-dashboard/utils"
)

type NotificationController struct {
	Store *notifications.Store
}

func NewNotificationController(store *notifications.Store) *NotificationController {
	return &NotificationController{Store: store}
}

// GetAllNotifications
func (nc *NotificationController) GetAllNotifications(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "All notifications", gin.H{
		"notifications": nc.Store.All(),
		"unread_count":  nc.Store.UnreadCount(),
	})
}

// GetUnreadCount
func (nc *NotificationController) GetUnreadCount(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Unread count", gin.H{
		"unread_count": nc.Store.UnreadCount(),
	})
}

// MarkNotificationRead -> unknown ids are a no-op, still a 200
func (nc *NotificationController) MarkNotificationRead(c *gin.Context) {
	id := c.Param("notif_id")
	nc.Store.MarkRead(id)
	utils.RespondJSON(c, http.StatusOK, "Notification marked as read", gin.H{"notif_id": id})
}

// MarkAllNotificationsRead
func (nc *NotificationController) MarkAllNotificationsRead(c *gin.Context) {
	nc.Store.MarkAllRead()
	utils.RespondJSON(c, http.StatusOK, "All notifications marked as read", gin.H{
		"unread_count": nc.Store.UnreadCount(),
	})
}

// DeleteNotification
func (nc *NotificationController) DeleteNotification(c *gin.Context) {
	id := c.Param("notif_id")
	nc.Store.Dismiss(id)
	utils.RespondJSON(c, http.StatusOK, "Notification deleted", gin.H{"notif_id": id})
}
