package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/nexora-app/nexora_backend/controllers"
	"github.com/nexora-app/nexora_backend/middleware"
)

// RegisterNotificationRoutes sets up the notification inbox and preferences
func RegisterNotificationRoutes(e *echo.Echo, notificationController *controllers.NotificationController) {
	notifications := e.Group("/api/notifications", middleware.JWTMiddleware())
	notifications.GET("", notificationController.GetNotifications)
	notifications.PUT("/read-all", notificationController.MarkAllAsRead)
	notifications.PUT("/:id/read", notificationController.MarkAsRead)
	notifications.DELETE("/:id", notificationController.DeleteNotification)
	notifications.GET("/preferences", notificationController.GetPreferences)
	notifications.PUT("/preferences", notificationController.UpdatePreferences)
}
