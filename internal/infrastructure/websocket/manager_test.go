package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "naafe/pkg/errors"
)

type recordingPresence struct {
	mu      sync.Mutex
	online  map[string]int
	offline map[string]int
}

func newRecordingPresence() *recordingPresence {
	return &recordingPresence{
		online:  make(map[string]int),
		offline: make(map[string]int),
	}
}

func (p *recordingPresence) SetOnline(ctx context.Context, userID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.online[userID]++
	return nil
}

func (p *recordingPresence) SetOffline(ctx context.Context, userID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.offline[userID]++
	return nil
}

func newTestClient(userID string) *Client {
	return &Client{
		UserID: userID,
		Send:   make(chan []byte, 8),
	}
}

func drainEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case payload := <-c.Send:
		var event Event
		require.NoError(t, json.Unmarshal(payload, &event))
		return event
	default:
		t.Fatal("expected an event on the send channel")
		return Event{}
	}
}

func TestRegisterAndSendToUser(t *testing.T) {
	presence := newRecordingPresence()
	m := NewManager(presence)
	ctx := context.Background()

	client := newTestClient("user-1")
	m.register(ctx, client)

	assert.True(t, m.IsOnline("user-1"))
	assert.False(t, m.IsOnline("user-2"))
	assert.Equal(t, 1, presence.online["user-1"])

	delivered := m.SendToUser("user-1", NewEvent(EventNotifyNewMessage, map[string]string{"hello": "there"}))
	assert.True(t, delivered)

	event := drainEvent(t, client)
	assert.Equal(t, EventNotifyNewMessage, event.Type)

	assert.False(t, m.SendToUser("user-2", NewEvent(EventNotifyNewMessage, nil)))
}

func TestRegisterReplacesExistingSession(t *testing.T) {
	m := NewManager(nil)
	ctx := context.Background()

	first := newTestClient("user-1")
	second := newTestClient("user-1")

	m.register(ctx, first)
	m.register(ctx, second)

	// The stale session's channel is closed.
	_, open := <-first.Send
	assert.False(t, open)

	m.SendToUser("user-1", NewEvent(EventMessagesRead, nil))
	event := drainEvent(t, second)
	assert.Equal(t, EventMessagesRead, event.Type)

	// The replaced session unregistering later must not evict the new one.
	m.unregister(ctx, first)
	assert.True(t, m.IsOnline("user-1"))
}

func TestReplacedSessionDropsLateSends(t *testing.T) {
	m := NewManager(nil)
	handler := &recordingHandler{}
	m.SetEventHandler(handler)
	ctx := context.Background()

	first := newTestClient("user-1")
	second := newTestClient("user-1")

	m.register(ctx, first)
	m.register(ctx, second)

	// The old session's read pump can still hand the manager one last
	// frame after the replacement closed its channel. The error reply
	// must be dropped, not sent.
	m.handleInbound(first, []byte(`{"type":"no-such-event"}`))

	// Direct pushes racing the replacement are dropped the same way.
	first.sendEvent(NewEvent(EventMessagesRead, nil))

	m.SendToUser("user-1", NewEvent(EventMessagesRead, nil))
	event := drainEvent(t, second)
	assert.Equal(t, EventMessagesRead, event.Type)
}

func TestUnregister(t *testing.T) {
	presence := newRecordingPresence()
	m := NewManager(presence)
	ctx := context.Background()

	client := newTestClient("user-1")
	m.register(ctx, client)
	m.JoinRoom("conv-1", "user-1")

	m.unregister(ctx, client)

	assert.False(t, m.IsOnline("user-1"))
	assert.Equal(t, 1, presence.offline["user-1"])

	// Room membership went with the session.
	m.SendToConversation("conv-1", NewEvent(EventMessagesRead, nil), "")
	assert.Empty(t, m.rooms["conv-1"])
}

func TestSendToConversationSkipsSender(t *testing.T) {
	m := NewManager(nil)
	ctx := context.Background()

	seeker := newTestClient("seeker-1")
	provider := newTestClient("provider-1")
	m.register(ctx, seeker)
	m.register(ctx, provider)
	m.JoinRoom("conv-1", "seeker-1")
	m.JoinRoom("conv-1", "provider-1")

	m.SendToConversation("conv-1", NewEvent(EventReceiveMessage, map[string]string{"content": "hi"}), "seeker-1")

	event := drainEvent(t, provider)
	assert.Equal(t, EventReceiveMessage, event.Type)

	select {
	case <-seeker.Send:
		t.Fatal("sender should not receive its own conversation broadcast")
	default:
	}
}

func TestLeaveRoom(t *testing.T) {
	m := NewManager(nil)
	ctx := context.Background()

	client := newTestClient("user-1")
	m.register(ctx, client)
	m.JoinRoom("conv-1", "user-1")
	m.LeaveRoom("conv-1", "user-1")

	m.SendToConversation("conv-1", NewEvent(EventReceiveMessage, nil), "")

	select {
	case <-client.Send:
		t.Fatal("client left the room and should not receive broadcasts")
	default:
	}
}

type recordingHandler struct {
	mu        sync.Mutex
	sent      []SendMessageData
	marked    []MarkReadData
	returnErr error
}

func (h *recordingHandler) HandleSendMessage(ctx context.Context, senderID string, data SendMessageData) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sent = append(h.sent, data)
	return h.returnErr
}

func (h *recordingHandler) HandleMarkRead(ctx context.Context, userID string, data MarkReadData) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.marked = append(h.marked, data)
	return h.returnErr
}

func TestHandleInboundSendMessage(t *testing.T) {
	m := NewManager(nil)
	handler := &recordingHandler{}
	m.SetEventHandler(handler)

	client := newTestClient("user-1")
	m.register(context.Background(), client)

	payload, err := json.Marshal(Event{
		Type: EventSendMessage,
		Data: SendMessageData{ConversationID: "conv-1", Content: "hello"},
	})
	require.NoError(t, err)

	m.handleInbound(client, payload)

	require.Len(t, handler.sent, 1)
	assert.Equal(t, "conv-1", handler.sent[0].ConversationID)
	assert.Equal(t, "hello", handler.sent[0].Content)
}

func TestHandleInboundUnknownType(t *testing.T) {
	m := NewManager(nil)
	client := newTestClient("user-1")
	m.register(context.Background(), client)

	m.handleInbound(client, []byte(`{"type":"no-such-event"}`))

	event := drainEvent(t, client)
	assert.Equal(t, EventError, event.Type)
}

func TestHandleInboundWrappedAppError(t *testing.T) {
	m := NewManager(nil)
	handler := &recordingHandler{
		returnErr: fmt.Errorf("handling frame: %w", apperrors.Forbidden("You do not have access to this conversation", nil)),
	}
	m.SetEventHandler(handler)

	client := newTestClient("user-1")
	m.register(context.Background(), client)

	payload, err := json.Marshal(Event{
		Type: EventSendMessage,
		Data: SendMessageData{ConversationID: "conv-1", Content: "hello"},
	})
	require.NoError(t, err)

	m.handleInbound(client, payload)

	event := drainEvent(t, client)
	assert.Equal(t, EventError, event.Type)

	data, ok := event.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "FORBIDDEN", data["code"])
	assert.Equal(t, "You do not have access to this conversation", data["message"])
}

func TestHandleInboundEnvelopeConversationID(t *testing.T) {
	m := NewManager(nil)
	handler := &recordingHandler{}
	m.SetEventHandler(handler)

	client := newTestClient("user-1")
	m.register(context.Background(), client)

	// mark-read with the conversation id on the envelope instead of the data.
	m.handleInbound(client, []byte(`{"type":"mark-read","conversation_id":"conv-9"}`))

	require.Len(t, handler.marked, 1)
	assert.Equal(t, "conv-9", handler.marked[0].ConversationID)
}
