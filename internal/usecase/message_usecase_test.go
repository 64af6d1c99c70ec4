package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"naafe/internal/domain/entity"
	"naafe/pkg/errors"

	ws "naafe/internal/infrastructure/websocket"
)

func newMessageFixture(online ...string) (*MessageUseCase, *ConversationUseCase, *fakeConversationRepo, *fakeNotificationRepo, *fakePusher) {
	conversations := newFakeConversationRepo(&entity.Conversation{
		ID:           "job-1",
		JobRequestID: "job-1",
		SeekerID:     "seeker-1",
		ProviderID:   "provider-1",
		Participants: []string{"seeker-1", "provider-1"},
		UnreadCount:  map[string]int{"seeker-1": 0, "provider-1": 0},
		IsActive:     true,
	})
	notifications := &fakeNotificationRepo{}
	pusher := newFakePusher(online...)

	notificationUC := NewNotificationUseCase(notifications, pusher)
	conversationUC := NewConversationUseCase(conversations, nil, nil, pusher, nil)
	messageUC := NewMessageUseCase(conversations, conversationUC, notificationUC, pusher, nil)

	return messageUC, conversationUC, conversations, notifications, pusher
}

func TestSendMessageReceiverOnline(t *testing.T) {
	messageUC, _, conversations, notifications, pusher := newMessageFixture("provider-1")
	ctx := context.Background()

	msg, err := messageUC.SendMessage(ctx, "job-1", "seeker-1", "Hello")
	require.NoError(t, err)
	assert.Equal(t, "provider-1", msg.ReceiverID)
	assert.False(t, msg.Read)

	// Sender got the ack, receiver got the push.
	senderEvents := pusher.eventsFor("seeker-1")
	require.Len(t, senderEvents, 1)
	assert.Equal(t, ws.EventMessageSent, senderEvents[0].Type)

	receiverEvents := pusher.eventsFor("provider-1")
	require.Len(t, receiverEvents, 2)
	assert.Equal(t, ws.EventReceiveMessage, receiverEvents[0].Type)
	assert.Equal(t, ws.EventNotifyNewMessage, receiverEvents[1].Type)

	// The notification record is written even for online receivers.
	notifs := notifications.byUser("provider-1")
	require.Len(t, notifs, 1)
	assert.Equal(t, entity.NotificationNewMessage, notifs[0].Type)

	// Conversation summary moved with the message.
	conv, err := conversations.GetByID(ctx, "job-1")
	require.NoError(t, err)
	require.NotNil(t, conv.LastMessage)
	assert.Equal(t, "Hello", conv.LastMessage.Content)
	assert.Equal(t, 1, conv.UnreadCount["provider-1"])
	assert.Equal(t, 0, conv.UnreadCount["seeker-1"])
}

func TestSendMessageReceiverOffline(t *testing.T) {
	messageUC, _, _, notifications, pusher := newMessageFixture()
	ctx := context.Background()

	_, err := messageUC.SendMessage(ctx, "job-1", "seeker-1", "Hello")
	require.NoError(t, err)

	// No receive-message push, but a stored new_message notification.
	var receiveEvents []ws.Event
	for _, e := range pusher.eventsFor("provider-1") {
		if e.Type == ws.EventReceiveMessage {
			receiveEvents = append(receiveEvents, e)
		}
	}
	assert.Empty(t, receiveEvents)

	notifs := notifications.byUser("provider-1")
	require.Len(t, notifs, 1)
	assert.Equal(t, entity.NotificationNewMessage, notifs[0].Type)
	assert.Equal(t, "job-1", notifs[0].RelatedChatID)
}

func TestSendMessageEmptyContent(t *testing.T) {
	messageUC, _, _, _, _ := newMessageFixture()

	_, err := messageUC.SendMessage(context.Background(), "job-1", "seeker-1", "   ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))
}

func TestSendMessageNonParticipant(t *testing.T) {
	messageUC, _, _, _, _ := newMessageFixture()

	_, err := messageUC.SendMessage(context.Background(), "job-1", "stranger", "Hi")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestMarkMessagesAsRead(t *testing.T) {
	messageUC, conversationUC, conversations, _, pusher := newMessageFixture("provider-1")
	ctx := context.Background()

	_, err := messageUC.SendMessage(ctx, "job-1", "seeker-1", "one")
	require.NoError(t, err)
	_, err = messageUC.SendMessage(ctx, "job-1", "seeker-1", "two")
	require.NoError(t, err)

	count, err := conversationUC.MarkMessagesAsRead(ctx, "job-1", "provider-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	conv, err := conversations.GetByID(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, 0, conv.UnreadCount["provider-1"])

	messages, _, err := conversations.GetMessagesByConversation(ctx, "job-1", 0, 0)
	require.NoError(t, err)
	for _, m := range messages {
		assert.True(t, m.Read)
		assert.NotNil(t, m.ReadAt)
	}

	// The sender's session hears about the read.
	var readEvents []ws.Event
	for _, e := range pusher.eventsFor("seeker-1") {
		if e.Type == ws.EventMessagesRead {
			readEvents = append(readEvents, e)
		}
	}
	require.Len(t, readEvents, 1)

	// Re-running with nothing unread is a no-op.
	count, err = conversationUC.MarkMessagesAsRead(ctx, "job-1", "provider-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestHandleSendMessageMissingConversation(t *testing.T) {
	messageUC, _, _, _, _ := newMessageFixture()

	err := messageUC.HandleSendMessage(context.Background(), "seeker-1", ws.SendMessageData{Content: "hi"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))
}
