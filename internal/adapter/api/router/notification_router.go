package router

import (
	"naafe/internal/adapter/api/handler"
	"naafe/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupNotificationRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	notificationHandler := handler.GetNotificationHandler()

	notifications := e.Group("/v1/notifications")
	notifications.Use(authMiddleware.Authenticate)

	notifications.GET("", notificationHandler.List)
	notifications.GET("/unread-count", notificationHandler.UnreadCount)
	notifications.POST("/read-all", notificationHandler.MarkAllRead)
}
