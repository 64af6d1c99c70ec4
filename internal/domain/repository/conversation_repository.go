package repository

import (
	"context"

	"naafe/internal/domain/entity"
)

type ConversationRepository interface {
	// GetOrCreate returns the conversation for conv.JobRequestID, creating it
	// when absent. Creation is idempotent under concurrent invocation: the
	// document id is the job request id, so racing creators resolve to the
	// same record. The bool reports whether this call created it.
	GetOrCreate(ctx context.Context, conv *entity.Conversation) (*entity.Conversation, bool, error)
	GetByID(ctx context.Context, id string) (*entity.Conversation, error)
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Conversation, int64, error)
	Update(ctx context.Context, conv *entity.Conversation) error

	// Message methods. AppendMessage persists the message and updates the
	// conversation's lastMessage snapshot and the receiver's unread counter
	// as one consistent write.
	AppendMessage(ctx context.Context, message *entity.Message) error
	GetMessagesByConversation(ctx context.Context, conversationID string, limit, offset int) ([]*entity.Message, int64, error)

	// MarkMessagesAsRead flips all unread messages addressed to userID in the
	// conversation, stamps readAt, zeroes that participant's unread counter
	// and returns the count affected. Idempotent.
	MarkMessagesAsRead(ctx context.Context, conversationID, userID string) (int, error)
}
