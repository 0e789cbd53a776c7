package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/aphiwit19/SimpleExpenseTracker/internal/domain"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	// writeWait is time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// pongWait is time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// pingPeriod is the interval for sending pings (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize is maximum message size allowed from peer
	maxMessageSize = 512
)

// ActionSelectWindow is the only client->server message: switch the
// dashboard time window this connection watches
const ActionSelectWindow = "select_window"

// ClientMessage is a message sent by the browser
type ClientMessage struct {
	Action string `json:"action"`
	Window string `json:"window"`
}

// WindowChangeFunc is called after a client switched window
type WindowChangeFunc func(client *Client)

// Client represents a single WebSocket connection
type Client struct {
	id             string
	window         domain.TimeWindow
	conn           *websocket.Conn
	hub            *Hub
	send           chan []byte
	closed         bool
	mu             sync.RWMutex
	closeOnce      sync.Once
	onWindowChange WindowChangeFunc
}

// NewClient creates a new WebSocket client watching window
func NewClient(conn *websocket.Conn, window domain.TimeWindow, hub *Hub) *Client {
	return &Client{
		id:     uuid.New().String(),
		window: window,
		conn:   conn,
		hub:    hub,
		send:   make(chan []byte, 256),
	}
}

// OnWindowChange sets the hook run after the client selects a new window
func (c *Client) OnWindowChange(fn WindowChangeFunc) {
	c.onWindowChange = fn
}

// ID returns the client's unique identifier
func (c *Client) ID() string {
	return c.id
}

// Window returns the time window the client is watching
func (c *Client) Window() domain.TimeWindow {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.window
}

// Send queues a message to be sent to the client
func (c *Client) Send(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClientClosed
	}

	select {
	case c.send <- data:
		return nil
	default:
		// Buffer is full, client is too slow
		return ErrClientClosed
	}
}

// Close closes the client connection
// Safe to call multiple times from different goroutines
func (c *Client) Close() error {
	var closeErr error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()

		closeErr = c.conn.Close()
	})
	return closeErr
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// selectWindow moves the client to another window group in the hub
func (c *Client) selectWindow(window domain.TimeWindow) {
	if window == c.Window() {
		return
	}

	c.hub.Unregister(c)
	c.mu.Lock()
	c.window = window
	c.mu.Unlock()
	c.hub.Register(c)

	if c.onWindowChange != nil {
		c.onWindowChange(c)
	}
}

// handleMessage applies one client message
func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Debug().Err(err).Str("client_id", c.id).Msg("Ignoring malformed client message")
		return
	}

	switch msg.Action {
	case ActionSelectWindow:
		c.selectWindow(domain.ParseTimeWindow(msg.Window))
	default:
		log.Debug().Str("client_id", c.id).Str("action", msg.Action).Msg("Ignoring unknown client action")
	}
}

// ReadPump pumps messages from the WebSocket connection
// This should be run in a goroutine
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().
					Err(err).
					Str("client_id", c.id).
					Str("window", string(c.Window())).
					Msg("WebSocket unexpected close")
			}
			break
		}
		c.handleMessage(data)
	}
}

// WritePump pumps messages from the hub to the WebSocket connection
// This should be run in a goroutine
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Channel closed, hub closed this client
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warn().
					Err(err).
					Str("client_id", c.id).
					Msg("WebSocket write error")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
