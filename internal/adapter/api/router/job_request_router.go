package router

import (
	"naafe/internal/adapter/api/handler"
	"naafe/internal/adapter/api/middleware"
	"naafe/internal/domain/entity"

	"github.com/labstack/echo/v4"
)

func SetupJobRequestRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	jobRequestHandler := handler.GetJobRequestHandler()
	offerHandler := handler.GetOfferHandler()

	jobs := e.Group("/v1/job-requests")
	jobs.Use(authMiddleware.Authenticate)

	jobs.GET("", jobRequestHandler.ListOpen)
	jobs.GET("/mine", jobRequestHandler.ListMine)
	jobs.GET("/:id", jobRequestHandler.Get)
	jobs.GET("/:id/offers", offerHandler.ListForJobRequest)

	jobs.POST("", jobRequestHandler.Create, roleMiddleware.RequireRole(entity.RoleSeeker))
	jobs.POST("/:id/cancel", jobRequestHandler.Cancel)
	jobs.POST("/:id/start", jobRequestHandler.Start)
	jobs.POST("/:id/complete", jobRequestHandler.Complete)
}
