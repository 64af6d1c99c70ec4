package handler

import (
	"context"
	"net/http"
	"strings"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"naafe/internal/adapter/api/middleware"
	ws "naafe/internal/infrastructure/websocket"
	"naafe/internal/usecase"
	"naafe/pkg/errors"
	"naafe/pkg/logger"
)

type WebSocketHandler struct {
	wsManager      *ws.Manager
	authMiddleware *middleware.AuthMiddleware
	userUseCase    *usecase.UserUseCase
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // You should restrict this in production
	},
}

func NewWebSocketHandler(wsManager *ws.Manager, authMiddleware *middleware.AuthMiddleware, userUseCase *usecase.UserUseCase) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:      wsManager,
		authMiddleware: authMiddleware,
		userUseCase:    userUseCase,
	}
}

// HandleWebSocket authenticates the handshake and hands the connection to
// the manager. Browsers cannot set headers on WebSocket upgrades, so the
// token may also arrive as a ?token= query parameter.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		authHeader := c.Request().Header.Get("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			token = parts[1]
		}
	}
	if token == "" {
		return errors.Unauthorized("Authentication required", nil)
	}

	userID, err := h.authMiddleware.GetUIDFromToken(c.Request().Context(), token)
	if err != nil {
		return errors.Unauthorized("Invalid or expired token", err)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return errors.Internal("Failed to upgrade connection", err)
	}

	client := ws.NewClient(userID, conn)

	h.wsManager.Register <- client

	go func() {
		client.ReadPump(h.wsManager)
		if err := h.userUseCase.TouchLastSeen(context.Background(), userID); err != nil {
			logger.Debug("Failed to stamp last seen for %s: %v", userID, err)
		}
	}()
	go client.WritePump()

	return nil
}
