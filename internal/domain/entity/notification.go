package entity

import "time"

const (
	NotificationOfferReceived = "offer_received"
	NotificationOfferAccepted = "offer_accepted"
	NotificationOfferRejected = "offer_rejected"
	NotificationNewMessage    = "new_message"
	NotificationSystem        = "system"
)

type Notification struct {
	ID      string `json:"id" firestore:"id"`
	UserID  string `json:"user_id" firestore:"userId"`
	Type    string `json:"type" firestore:"type"`
	Title   string `json:"title,omitempty" firestore:"title,omitempty"`
	Message string `json:"message" firestore:"message"`

	// RelatedChatID is a lookup key into conversations, not an ownership edge.
	RelatedChatID string `json:"related_chat_id,omitempty" firestore:"relatedChatId,omitempty"`

	IsRead    bool      `json:"is_read" firestore:"isRead"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}
