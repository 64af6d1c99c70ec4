package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client represents one authenticated WebSocket session.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte

	mu     sync.Mutex
	closed bool
}

func NewClient(userID string, conn *websocket.Conn) *Client {
	return &Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 64),
	}
}

// ReadPump reads frames from the connection and dispatches them to the
// manager until the peer goes away.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, payload, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket: read error from %s: %v", c.UserID, err)
			}
			break
		}

		m.handleInbound(c, payload)
	}
}

// WritePump drains the Send channel onto the connection and keeps the
// connection alive with periodic pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Printf("WebSocket: write error to %s: %v", c.UserID, err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) sendEvent(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("WebSocket: failed to marshal event for %s: %v", c.UserID, err)
		return
	}

	// The lock orders sends against closeSend, so a replaced session can
	// never push onto its closed channel.
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		log.Printf("WebSocket: session for %s already closed, dropping event %s", c.UserID, event.Type)
		return
	}

	select {
	case c.Send <- payload:
	default:
		log.Printf("WebSocket: send buffer full for %s, dropping event %s", c.UserID, event.Type)
	}
}

// closeSend shuts the Send channel exactly once. Safe against concurrent
// sendEvent callers.
func (c *Client) closeSend() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
	c.mu.Unlock()
}
