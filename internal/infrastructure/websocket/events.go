package websocket

import (
	"context"
	"time"
)

// Inbound event types sent by clients.
const (
	EventSendMessage       = "send-message"
	EventJoinConversation  = "join-conversation"
	EventLeaveConversation = "leave-conversation"
	EventMarkRead          = "mark-read"
)

// Outbound event types pushed to clients.
const (
	EventMessageSent        = "message-sent"
	EventReceiveMessage     = "receive-message"
	EventMessagesRead       = "messages-read"
	EventNotifyOfferCreated = "notify:offerReceived"
	EventNotifyOfferAccept  = "notify:offerAccepted"
	EventNotifyNewMessage   = "notify:newMessage"
	EventError              = "error"
)

// Event is the envelope for every frame on the socket, both directions.
type Event struct {
	Type           string      `json:"type"`
	Data           interface{} `json:"data,omitempty"`
	ConversationID string      `json:"conversation_id,omitempty"`
	Timestamp      string      `json:"timestamp"`
}

func NewEvent(eventType string, data interface{}) Event {
	return Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// SendMessageData is the payload of an inbound send-message event. The
// receiver is derived from the conversation; a client-sent receiver_id is
// accepted but never trusted.
type SendMessageData struct {
	ConversationID string `json:"conversation_id"`
	ReceiverID     string `json:"receiver_id,omitempty"`
	Content        string `json:"content"`
}

// MarkReadData is the payload of an inbound mark-read event.
type MarkReadData struct {
	ConversationID string `json:"conversation_id"`
}

// EventHandler receives the inbound events that need domain logic. The
// message usecase implements it, which keeps this package free of
// repository imports.
type EventHandler interface {
	HandleSendMessage(ctx context.Context, senderID string, data SendMessageData) error
	HandleMarkRead(ctx context.Context, userID string, data MarkReadData) error
}
