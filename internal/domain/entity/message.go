package entity

import "time"

// Message is immutable once created except for the read/readAt transition,
// which is monotonic (unread to read, never reversed).
type Message struct {
	ID             string     `json:"id" firestore:"id"`
	ConversationID string     `json:"conversation_id" firestore:"conversationId"`
	SenderID       string     `json:"sender_id" firestore:"senderId"`
	ReceiverID     string     `json:"receiver_id" firestore:"receiverId"`
	Content        string     `json:"content" firestore:"content"`
	Read           bool       `json:"read" firestore:"read"`
	ReadAt         *time.Time `json:"read_at,omitempty" firestore:"readAt,omitempty"`
	CreatedAt      time.Time  `json:"created_at" firestore:"createdAt"`
}
