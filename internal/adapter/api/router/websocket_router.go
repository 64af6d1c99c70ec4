package router

import (
	"github.com/labstack/echo/v4"

	"naafe/internal/adapter/api/handler"
	"naafe/internal/adapter/api/middleware"
)

// SetupWebSocketRouter registers the realtime endpoint. Authentication is
// handled inside the handler because the token can arrive as a query
// parameter on the upgrade request.
func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler) {
	e.GET("/ws", wsHandler.HandleWebSocket, middleware.HandshakeRateLimit())
}
