package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	apperrors "naafe/pkg/errors"
)

const presenceRefreshInterval = 30 * time.Second

// PresenceStore mirrors connection state into a shared directory so other
// instances can answer online checks. Failures degrade to local state only.
type PresenceStore interface {
	SetOnline(ctx context.Context, userID string) error
	SetOffline(ctx context.Context, userID string) error
}

// Manager owns every live WebSocket session of this instance. Each user
// holds at most one slot: a new connection for an already connected user
// replaces the previous session.
type Manager struct {
	clients    map[string]*Client
	rooms      map[string]map[string]bool
	Register   chan *Client
	Unregister chan *Client
	handler    EventHandler
	presence   PresenceStore
	mutex      sync.RWMutex
}

func NewManager(presence PresenceStore) *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		presence:   presence,
	}
}

// SetEventHandler wires the domain logic in after construction, since the
// usecase that handles events also needs the manager for pushes.
func (m *Manager) SetEventHandler(handler EventHandler) {
	m.handler = handler
}

// Start runs the registration loop and the presence refresh ticker until
// ctx is cancelled.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(presenceRefreshInterval)
		defer ticker.Stop()

		for {
			select {
			case client := <-m.Register:
				m.register(ctx, client)

			case client := <-m.Unregister:
				m.unregister(ctx, client)

			case <-ticker.C:
				m.refreshPresence(ctx)

			case <-ctx.Done():
				return
			}
		}
	}()
}

func (m *Manager) register(ctx context.Context, client *Client) {
	m.mutex.Lock()
	if old, ok := m.clients[client.UserID]; ok {
		old.closeSend()
		if old.Conn != nil {
			old.Conn.Close()
		}
		m.removeFromAllRooms(client.UserID)
	}
	m.clients[client.UserID] = client
	m.mutex.Unlock()

	if m.presence != nil {
		if err := m.presence.SetOnline(ctx, client.UserID); err != nil {
			log.Printf("WebSocket: presence set online failed for %s: %v", client.UserID, err)
		}
	}

	log.Printf("WebSocket: client registered: %s", client.UserID)
}

func (m *Manager) unregister(ctx context.Context, client *Client) {
	m.mutex.Lock()
	current, ok := m.clients[client.UserID]
	// A replaced session unregisters after its successor took the slot.
	if ok && current == client {
		delete(m.clients, client.UserID)
		m.removeFromAllRooms(client.UserID)
		client.closeSend()
	} else {
		ok = false
	}
	m.mutex.Unlock()

	if ok && m.presence != nil {
		if err := m.presence.SetOffline(ctx, client.UserID); err != nil {
			log.Printf("WebSocket: presence set offline failed for %s: %v", client.UserID, err)
		}
	}

	if ok {
		log.Printf("WebSocket: client unregistered: %s", client.UserID)
	}
}

func (m *Manager) refreshPresence(ctx context.Context) {
	if m.presence == nil {
		return
	}

	m.mutex.RLock()
	userIDs := make([]string, 0, len(m.clients))
	for userID := range m.clients {
		userIDs = append(userIDs, userID)
	}
	m.mutex.RUnlock()

	for _, userID := range userIDs {
		if err := m.presence.SetOnline(ctx, userID); err != nil {
			log.Printf("WebSocket: presence refresh failed for %s: %v", userID, err)
		}
	}
}

func (m *Manager) removeFromAllRooms(userID string) {
	for conversationID, members := range m.rooms {
		delete(members, userID)
		if len(members) == 0 {
			delete(m.rooms, conversationID)
		}
	}
}

// IsOnline reports whether the user has a live session on this instance.
func (m *Manager) IsOnline(userID string) bool {
	m.mutex.RLock()
	_, ok := m.clients[userID]
	m.mutex.RUnlock()
	return ok
}

// SendToUser delivers the event to the user's session if one exists and
// reports whether delivery was attempted.
func (m *Manager) SendToUser(userID string, event Event) bool {
	m.mutex.RLock()
	client, ok := m.clients[userID]
	m.mutex.RUnlock()

	if !ok {
		return false
	}

	client.sendEvent(event)
	return true
}

// JoinRoom subscribes the user to a conversation's room.
func (m *Manager) JoinRoom(conversationID, userID string) {
	m.mutex.Lock()
	if m.rooms[conversationID] == nil {
		m.rooms[conversationID] = make(map[string]bool)
	}
	m.rooms[conversationID][userID] = true
	m.mutex.Unlock()

	log.Printf("WebSocket: %s joined conversation %s", userID, conversationID)
}

// LeaveRoom removes the user from a conversation's room.
func (m *Manager) LeaveRoom(conversationID, userID string) {
	m.mutex.Lock()
	if members, ok := m.rooms[conversationID]; ok {
		delete(members, userID)
		if len(members) == 0 {
			delete(m.rooms, conversationID)
		}
	}
	m.mutex.Unlock()

	log.Printf("WebSocket: %s left conversation %s", userID, conversationID)
}

// SendToConversation delivers the event to every room member except
// exceptUserID.
func (m *Manager) SendToConversation(conversationID string, event Event, exceptUserID string) {
	m.mutex.RLock()
	members := make([]*Client, 0)
	for userID := range m.rooms[conversationID] {
		if userID == exceptUserID {
			continue
		}
		if client, ok := m.clients[userID]; ok {
			members = append(members, client)
		}
	}
	m.mutex.RUnlock()

	for _, client := range members {
		client.sendEvent(event)
	}
}

func (m *Manager) handleInbound(client *Client, payload []byte) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		client.sendEvent(NewEvent(EventError, map[string]string{"message": "Invalid event format"}))
		return
	}

	ctx := context.Background()

	switch event.Type {
	case EventJoinConversation:
		if event.ConversationID == "" {
			client.sendEvent(NewEvent(EventError, map[string]string{"message": "Missing conversation_id"}))
			return
		}
		m.JoinRoom(event.ConversationID, client.UserID)

	case EventLeaveConversation:
		if event.ConversationID == "" {
			client.sendEvent(NewEvent(EventError, map[string]string{"message": "Missing conversation_id"}))
			return
		}
		m.LeaveRoom(event.ConversationID, client.UserID)

	case EventSendMessage:
		var data SendMessageData
		if err := decodeEventData(event.Data, &data); err != nil {
			client.sendEvent(NewEvent(EventError, map[string]string{"message": "Invalid send-message data"}))
			return
		}
		if data.ConversationID == "" && event.ConversationID != "" {
			data.ConversationID = event.ConversationID
		}
		if m.handler == nil {
			return
		}
		if err := m.handler.HandleSendMessage(ctx, client.UserID, data); err != nil {
			client.sendEvent(errorEvent(err))
		}

	case EventMarkRead:
		var data MarkReadData
		if err := decodeEventData(event.Data, &data); err != nil {
			client.sendEvent(NewEvent(EventError, map[string]string{"message": "Invalid mark-read data"}))
			return
		}
		if data.ConversationID == "" && event.ConversationID != "" {
			data.ConversationID = event.ConversationID
		}
		if m.handler == nil {
			return
		}
		if err := m.handler.HandleMarkRead(ctx, client.UserID, data); err != nil {
			client.sendEvent(errorEvent(err))
		}

	default:
		log.Printf("WebSocket: unknown event type %q from %s", event.Type, client.UserID)
		client.sendEvent(NewEvent(EventError, map[string]string{"message": "Unknown event type"}))
	}
}

func decodeEventData(data interface{}, out interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func errorEvent(err error) Event {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return NewEvent(EventError, map[string]string{
			"code":    appErr.Code,
			"message": appErr.Message,
		})
	}
	return NewEvent(EventError, map[string]string{
		"code":    "INTERNAL_ERROR",
		"message": "Something went wrong",
	})
}
