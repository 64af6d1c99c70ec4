package usecase

import (
	ws "naafe/internal/infrastructure/websocket"
)

// Pusher is the slice of the WebSocket manager the usecases need for
// real-time delivery.
type Pusher interface {
	SendToUser(userID string, event ws.Event) bool
	IsOnline(userID string) bool
	SendToConversation(conversationID string, event ws.Event, exceptUserID string)
}
