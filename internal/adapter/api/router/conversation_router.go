package router

import (
	"naafe/internal/adapter/api/handler"
	"naafe/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupConversationRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	conversationHandler := handler.GetConversationHandler()

	conversations := e.Group("/v1/conversations")
	conversations.Use(authMiddleware.Authenticate)
	conversations.Use(roleMiddleware.ActiveOnly)

	conversations.GET("", conversationHandler.ListMine)
	conversations.GET("/:id", conversationHandler.Get)
	conversations.GET("/:id/messages", conversationHandler.GetMessages)

	conversations.POST("", conversationHandler.StartNegotiation)
	conversations.POST("/:id/messages", conversationHandler.SendMessage)
	conversations.POST("/:id/read", conversationHandler.MarkRead)
}
