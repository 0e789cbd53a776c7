package websocket

import (
	"errors"
	"sync"

	"github.com/aphiwit19/SimpleExpenseTracker/internal/domain"
	"github.com/rs/zerolog/log"
)

// ErrClientClosed is returned when attempting to send to a closed client
var ErrClientClosed = errors.New("client is closed")

// ClientInterface defines the interface that clients must implement
type ClientInterface interface {
	ID() string
	Window() domain.TimeWindow
	Send(data []byte) error
	Close() error
}

// Hub manages WebSocket connections grouped by the dashboard time window
// each client is watching. It is safe for concurrent use.
type Hub struct {
	// windows maps a time window to a map of client ID to client
	windows map[domain.TimeWindow]map[string]ClientInterface
	mu      sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		windows: make(map[domain.TimeWindow]map[string]ClientInterface),
	}
}

// Register adds a client to the hub under its window
func (h *Hub) Register(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	window := client.Window()
	clientID := client.ID()

	if h.windows[window] == nil {
		h.windows[window] = make(map[string]ClientInterface)
	}

	h.windows[window][clientID] = client

	log.Debug().
		Str("window", string(window)).
		Str("client_id", clientID).
		Msg("WebSocket client registered")
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	window := client.Window()
	clientID := client.ID()

	if clients, ok := h.windows[window]; ok {
		if _, exists := clients[clientID]; exists {
			delete(clients, clientID)

			// Clean up empty window maps
			if len(clients) == 0 {
				delete(h.windows, window)
			}

			log.Debug().
				Str("window", string(window)).
				Str("client_id", clientID).
				Msg("WebSocket client unregistered")
		}
	}
}

// ActiveWindows returns the windows that have at least one client, in
// selector order
func (h *Hub) ActiveWindows() []domain.TimeWindow {
	h.mu.RLock()
	defer h.mu.RUnlock()

	windows := make([]domain.TimeWindow, 0, len(h.windows))
	for _, window := range domain.TimeWindows {
		if len(h.windows[window]) > 0 {
			windows = append(windows, window)
		}
	}
	return windows
}

// BroadcastToWindow sends an event to every client watching window
func (h *Hub) BroadcastToWindow(window domain.TimeWindow, event Event) {
	h.mu.RLock()
	clients := h.collect(func(w domain.TimeWindow) bool { return w == window })
	h.mu.RUnlock()

	h.send(clients, event)
}

// Broadcast sends an event to every connected client
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	clients := h.collect(func(domain.TimeWindow) bool { return true })
	h.mu.RUnlock()

	h.send(clients, event)
}

// collect copies matching clients so sends happen without holding the lock.
// Callers must hold h.mu.
func (h *Hub) collect(match func(domain.TimeWindow) bool) []ClientInterface {
	var clients []ClientInterface
	for window, byID := range h.windows {
		if !match(window) {
			continue
		}
		for _, client := range byID {
			clients = append(clients, client)
		}
	}
	return clients
}

func (h *Hub) send(clients []ClientInterface, event Event) {
	if len(clients) == 0 {
		return
	}

	data, err := event.ToJSON()
	if err != nil {
		log.Error().
			Err(err).
			Str("event_type", event.Type).
			Msg("Failed to serialize event")
		return
	}

	// Send to each client asynchronously
	for _, client := range clients {
		go func(c ClientInterface) {
			if err := c.Send(data); err != nil {
				log.Warn().
					Err(err).
					Str("client_id", c.ID()).
					Msg("Failed to send to client")
			}
		}(client)
	}

	log.Debug().
		Str("event_type", event.Type).
		Int("client_count", len(clients)).
		Msg("Broadcast event")
}

// ClientCount returns the number of clients watching window
func (h *Hub) ClientCount(window domain.TimeWindow) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.windows[window])
}

// TotalClientCount returns the total number of connected clients
func (h *Hub) TotalClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, clients := range h.windows {
		total += len(clients)
	}
	return total
}
