package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"naafe/internal/domain/entity"
	"naafe/internal/domain/repository"
	"naafe/pkg/errors"
)

type firestoreConversationRepository struct {
	client *firestore.Client
}

func NewFirestoreConversationRepository(client *firestore.Client) repository.ConversationRepository {
	return &firestoreConversationRepository{
		client: client,
	}
}

// GetOrCreate relies on the conversation document being keyed by the job
// request ID. Create fails on an existing document, so concurrent callers
// converge on the same conversation without any locking.
func (r *firestoreConversationRepository) GetOrCreate(ctx context.Context, conv *entity.Conversation) (*entity.Conversation, bool, error) {
	conv.ID = conv.JobRequestID
	now := time.Now()
	conv.CreatedAt = now
	conv.UpdatedAt = now
	conv.IsActive = true
	if conv.UnreadCount == nil {
		conv.UnreadCount = map[string]int{
			conv.SeekerID:   0,
			conv.ProviderID: 0,
		}
	}

	docRef := r.client.Collection("conversations").Doc(conv.ID)

	_, err := docRef.Create(ctx, conv)
	if err == nil {
		return conv, true, nil
	}

	if status.Code(err) != codes.AlreadyExists {
		return nil, false, errors.Internal("Failed to create conversation", err)
	}

	existing, err := r.GetByID(ctx, conv.ID)
	if err != nil {
		return nil, false, err
	}

	return existing, false, nil
}

func (r *firestoreConversationRepository) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	doc, err := r.client.Collection("conversations").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Conversation", err)
		}
		return nil, errors.Internal("Failed to get conversation", err)
	}

	var conv entity.Conversation
	if err := doc.DataTo(&conv); err != nil {
		return nil, errors.Internal("Failed to parse conversation data", err)
	}

	return &conv, nil
}

func (r *firestoreConversationRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Conversation, int64, error) {
	query := r.client.Collection("conversations").
		Where("participants", "array-contains", userID).
		OrderBy("updatedAt", firestore.Desc)

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count conversations", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var conversations []*entity.Conversation

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate conversations", err)
		}

		var conv entity.Conversation
		if err := doc.DataTo(&conv); err != nil {
			return nil, 0, errors.Internal("Failed to parse conversation data", err)
		}

		conversations = append(conversations, &conv)
	}

	return conversations, total, nil
}

func (r *firestoreConversationRepository) Update(ctx context.Context, conv *entity.Conversation) error {
	conv.UpdatedAt = time.Now()

	_, err := r.client.Collection("conversations").Doc(conv.ID).Set(ctx, conv)
	if err != nil {
		return errors.Internal("Failed to update conversation", err)
	}

	return nil
}

// AppendMessage stores the message and updates the conversation preview and
// the receiver's unread counter in one transaction, so the counter never
// drifts from the messages actually stored.
func (r *firestoreConversationRepository) AppendMessage(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.CreatedAt = time.Now()

	convRef := r.client.Collection("conversations").Doc(message.ConversationID)
	msgRef := convRef.Collection("messages").Doc(message.ID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		convDoc, err := tx.Get(convRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Conversation", err)
			}
			return err
		}

		var conv entity.Conversation
		if err := convDoc.DataTo(&conv); err != nil {
			return err
		}

		if conv.UnreadCount == nil {
			conv.UnreadCount = make(map[string]int)
		}
		conv.UnreadCount[message.ReceiverID]++
		conv.LastMessage = &entity.LastMessage{
			Content:  message.Content,
			SenderID: message.SenderID,
			SentAt:   message.CreatedAt,
		}
		conv.UpdatedAt = message.CreatedAt

		if err := tx.Set(msgRef, message); err != nil {
			return err
		}
		return tx.Set(convRef, conv)
	})

	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return err
		}
		return errors.Internal("Failed to append message", err)
	}

	return nil
}

func (r *firestoreConversationRepository) GetMessagesByConversation(ctx context.Context, conversationID string, limit, offset int) ([]*entity.Message, int64, error) {
	query := r.client.Collection("conversations").Doc(conversationID).
		Collection("messages").
		OrderBy("createdAt", firestore.Desc)

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count messages", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var messages []*entity.Message

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			return nil, 0, errors.Internal("Failed to parse message data", err)
		}

		messages = append(messages, &message)
	}

	return messages, total, nil
}

// MarkMessagesAsRead flips every unread message addressed to userID and
// zeroes their unread counter. Re-running with nothing unread is a no-op
// returning zero.
func (r *firestoreConversationRepository) MarkMessagesAsRead(ctx context.Context, conversationID, userID string) (int, error) {
	convRef := r.client.Collection("conversations").Doc(conversationID)

	query := convRef.Collection("messages").
		Where("receiverId", "==", userID).
		Where("read", "==", false)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to query unread messages", err)
	}

	now := time.Now()
	for _, doc := range docs {
		_, err := doc.Ref.Update(ctx, []firestore.Update{
			{Path: "read", Value: true},
			{Path: "readAt", Value: now},
		})
		if err != nil {
			return 0, errors.Internal("Failed to mark message as read", err)
		}
	}

	err = r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		convDoc, err := tx.Get(convRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Conversation", err)
			}
			return err
		}

		var conv entity.Conversation
		if err := convDoc.DataTo(&conv); err != nil {
			return err
		}

		if conv.UnreadCount == nil {
			conv.UnreadCount = make(map[string]int)
		}
		conv.UnreadCount[userID] = 0

		return tx.Set(convRef, conv)
	})

	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return 0, err
		}
		return 0, errors.Internal("Failed to reset unread counter", err)
	}

	return len(docs), nil
}
