package router

import (
	"naafe/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	SetupUserRouter(e, authMiddleware)
	SetupJobRequestRouter(e, authMiddleware, roleMiddleware)
	SetupOfferRouter(e, authMiddleware, roleMiddleware)
	SetupConversationRouter(e, authMiddleware, roleMiddleware)
	SetupNotificationRouter(e, authMiddleware)
	SetupHealthRouter(e)
}
