package router

import (
	"naafe/internal/adapter/api/handler"
	"naafe/internal/adapter/api/middleware"
	"naafe/internal/domain/entity"

	"github.com/labstack/echo/v4"
)

func SetupOfferRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	offerHandler := handler.GetOfferHandler()

	offers := e.Group("/v1/offers")
	offers.Use(authMiddleware.Authenticate)

	offers.GET("/mine", offerHandler.ListMine)
	offers.GET("/:id", offerHandler.Get)

	offers.POST("", offerHandler.Create, roleMiddleware.RequireRole(entity.RoleProvider))
	offers.PATCH("/:id", offerHandler.Update)
	offers.POST("/:id/accept", offerHandler.Accept)
	offers.POST("/:id/reject", offerHandler.Reject)
	offers.POST("/:id/withdraw", offerHandler.Withdraw)
}
