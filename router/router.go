package router

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-dashboard/analytics"
	"github.com/yeremiapane/restaurant-dashboard/controllers"
	"github.com/yeremiapane/restaurant-dashboard/middlewares"
	"github.com/yeremiapane/restaurant-dashboard/notifications"
)

func SetupRouter(client *analytics.Client, refresher *analytics.Refresher, store *notifications.Store) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	dashboardCtrl := controllers.NewDashboardController(client, refresher)
	notificationCtrl := controllers.NewNotificationController(store)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())

	// DASHBOARD
	api.GET("/dashboard/analytics", dashboardCtrl.GetDashboardAnalytics)
	api.GET("/dashboard/orders-over-time", dashboardCtrl.GetOrdersOverTime)
	api.GET("/dashboard/popular-hours", dashboardCtrl.GetPopularHours)
	api.GET("/dashboard/recent-activity", dashboardCtrl.GetRecentActivity)
	api.GET("/dashboard/recent-activity/export", dashboardCtrl.ExportRecentActivity)

	// NOTIFICATIONS
	api.GET("/notifications", notificationCtrl.GetAllNotifications)
	api.GET("/notifications/unread-count", notificationCtrl.GetUnreadCount)
	api.PATCH("/notifications/:notif_id/read", notificationCtrl.MarkNotificationRead)
	api.POST("/notifications/read-all", notificationCtrl.MarkAllNotificationsRead)
	api.DELETE("/notifications/:notif_id", notificationCtrl.DeleteNotification)

	return r
}
