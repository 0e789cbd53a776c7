package handler

import (
	"net/http"

	"github.com/aphiwit19/SimpleExpenseTracker/internal/domain"
	"github.com/aphiwit19/SimpleExpenseTracker/internal/service"
	"github.com/aphiwit19/SimpleExpenseTracker/internal/websocket"
	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	hub              *websocket.Hub
	dashboardService *service.DashboardService
	allowedOrigins   map[string]bool
	upgrader         ws.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler
func NewWebSocketHandler(hub *websocket.Hub, dashboardService *service.DashboardService, allowedOrigins []string) *WebSocketHandler {
	// Build origin lookup map
	originMap := make(map[string]bool)
	for _, origin := range allowedOrigins {
		originMap[origin] = true
	}

	h := &WebSocketHandler{
		hub:              hub,
		dashboardService: dashboardService,
		allowedOrigins:   originMap,
	}

	h.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	return h
}

// checkOrigin validates the request origin against allowed origins
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Allow requests with no Origin header (e.g., same-origin or non-browser clients)
		return true
	}

	if h.allowedOrigins[origin] {
		return true
	}

	log.Warn().
		Str("origin", origin).
		Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// HandleWS handles WebSocket connection requests at GET /ws?window=
func (h *WebSocketHandler) HandleWS(c echo.Context) error {
	window := domain.ParseTimeWindow(c.QueryParam("window"))

	// Upgrade HTTP connection to WebSocket
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return err
	}

	// Create client and register with hub
	client := websocket.NewClient(conn, window, h.hub)
	client.OnWindowChange(h.sendDashboard)
	h.hub.Register(client)

	log.Info().
		Str("window", string(window)).
		Str("client_id", client.ID()).
		Msg("WebSocket client connected")

	// Start read/write pumps in goroutines
	go client.WritePump()
	go client.ReadPump()

	// Current state first, pushes follow
	h.sendDashboard(client)

	return nil
}

// sendDashboard sends the dashboard for the client's current window
func (h *WebSocketHandler) sendDashboard(client *websocket.Client) {
	dashboard, err := h.dashboardService.GetDashboard(client.Window())
	if err != nil {
		log.Debug().Err(err).Str("client_id", client.ID()).Msg("No dashboard to send yet")
		return
	}

	data, err := websocket.DashboardUpdated(DashboardPayload(dashboard)).ToJSON()
	if err != nil {
		log.Error().Err(err).Msg("Failed to serialize dashboard event")
		return
	}

	if err := client.Send(data); err != nil {
		log.Debug().Err(err).Str("client_id", client.ID()).Msg("Failed to send dashboard")
	}
}
