package usecase

import (
	"context"
	"strings"

	"naafe/internal/domain/entity"
	"naafe/internal/domain/repository"
	"naafe/internal/infrastructure/ratelimit"
	"naafe/pkg/errors"
	"naafe/pkg/logger"

	ws "naafe/internal/infrastructure/websocket"
)

type MessageUseCase struct {
	conversationRepo repository.ConversationRepository
	conversationUC   *ConversationUseCase
	notificationUC   *NotificationUseCase
	pusher           Pusher
	rateLimiter      *ratelimit.RateLimiter
}

func NewMessageUseCase(
	conversationRepo repository.ConversationRepository,
	conversationUC *ConversationUseCase,
	notificationUC *NotificationUseCase,
	pusher Pusher,
	rateLimiter *ratelimit.RateLimiter,
) *MessageUseCase {
	return &MessageUseCase{
		conversationRepo: conversationRepo,
		conversationUC:   conversationUC,
		notificationUC:   notificationUC,
		pusher:           pusher,
		rateLimiter:      rateLimiter,
	}
}

// SendMessage persists the message together with the conversation summary
// update, acks the sender, pushes to the receiver's live session, and records
// a notification for the receiver regardless of their presence.
func (uc *MessageUseCase) SendMessage(ctx context.Context, conversationID, senderID, content string) (*entity.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.Validation("Message content cannot be empty")
	}

	conv, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(senderID) {
		return nil, errors.Forbidden("You do not have access to this conversation", nil)
	}

	if uc.rateLimiter != nil {
		if allowed, _ := uc.rateLimiter.Allow(senderID, ratelimit.ActionSendMessage); !allowed {
			return nil, errors.TooManyRequests("Too many messages, slow down")
		}
	}

	message := &entity.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		ReceiverID:     conv.OtherParticipant(senderID),
		Content:        content,
	}

	if err := uc.conversationRepo.AppendMessage(ctx, message); err != nil {
		return nil, err
	}

	if uc.pusher != nil {
		uc.pusher.SendToUser(senderID, ws.NewEvent(ws.EventMessageSent, message))

		if uc.pusher.IsOnline(message.ReceiverID) {
			uc.pusher.SendToUser(message.ReceiverID, ws.NewEvent(ws.EventReceiveMessage, message))
		}
	}

	// The notification record is written for every message so history
	// survives disconnects; the push inside Notify only reaches live
	// sessions.
	if err := uc.notificationUC.Notify(ctx, message.ReceiverID,
		entity.NotificationNewMessage,
		"New message",
		content,
		conversationID,
	); err != nil {
		logger.LogDispatchError(message.ReceiverID, "new_message", err)
	}

	return message, nil
}

func (uc *MessageUseCase) GetMessages(ctx context.Context, conversationID, callerID string, limit, offset int) ([]*entity.Message, int64, error) {
	conv, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, 0, err
	}
	if !conv.HasParticipant(callerID) {
		return nil, 0, errors.Forbidden("You do not have access to this conversation", nil)
	}

	return uc.conversationRepo.GetMessagesByConversation(ctx, conversationID, limit, offset)
}

// HandleSendMessage implements ws.EventHandler for inbound send-message
// frames.
func (uc *MessageUseCase) HandleSendMessage(ctx context.Context, senderID string, data ws.SendMessageData) error {
	if data.ConversationID == "" {
		return errors.Validation("Missing conversation_id")
	}

	_, err := uc.SendMessage(ctx, data.ConversationID, senderID, data.Content)
	return err
}

// HandleMarkRead implements ws.EventHandler for inbound mark-read frames.
func (uc *MessageUseCase) HandleMarkRead(ctx context.Context, userID string, data ws.MarkReadData) error {
	if data.ConversationID == "" {
		return errors.Validation("Missing conversation_id")
	}

	_, err := uc.conversationUC.MarkMessagesAsRead(ctx, data.ConversationID, userID)
	return err
}
