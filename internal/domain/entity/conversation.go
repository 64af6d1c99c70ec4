package entity

import "time"

// LastMessage is the denormalized snapshot kept on the conversation so chat
// lists render without fetching the messages subcollection.
type LastMessage struct {
	Content  string    `json:"content" firestore:"content"`
	SenderID string    `json:"sender_id" firestore:"senderId"`
	SentAt   time.Time `json:"sent_at" firestore:"sentAt"`
}

// Conversation is the single chat channel bound to one job request. The
// document id equals the job request id, which makes creation idempotent and
// enforces one-conversation-per-job structurally.
type Conversation struct {
	ID           string   `json:"id" firestore:"id"`
	JobRequestID string   `json:"job_request_id" firestore:"jobRequestId"`
	SeekerID     string   `json:"seeker_id" firestore:"seekerId"`
	ProviderID   string   `json:"provider_id" firestore:"providerId"`
	Participants []string `json:"participants" firestore:"participants"`

	LastMessage *LastMessage   `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	UnreadCount map[string]int `json:"unread_count" firestore:"unreadCount"` // userID -> unread messages addressed to them
	IsActive    bool           `json:"is_active" firestore:"isActive"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (c *Conversation) HasParticipant(userID string) bool {
	return userID == c.SeekerID || userID == c.ProviderID
}

// OtherParticipant returns the participant that is not userID, or "" when
// userID is not a participant at all.
func (c *Conversation) OtherParticipant(userID string) string {
	switch userID {
	case c.SeekerID:
		return c.ProviderID
	case c.ProviderID:
		return c.SeekerID
	}
	return ""
}
