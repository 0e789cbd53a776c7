package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aphiwit19/SimpleExpenseTracker/internal/domain"
	"github.com/aphiwit19/SimpleExpenseTracker/internal/service"
	"github.com/aphiwit19/SimpleExpenseTracker/internal/testutil"
	"github.com/aphiwit19/SimpleExpenseTracker/internal/websocket"
	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAllowedOrigins = []string{"http://localhost:3000", "https://expense-tracker.app"}

func newTestWebSocketHandler(expenses ...*domain.Expense) (*WebSocketHandler, *websocket.Hub) {
	hub := websocket.NewHub()
	dashboards := service.NewDashboardService(testutil.NewStaticSnapshotSource(expenses...), service.DefaultDashboardServiceConfig())
	return NewWebSocketHandler(hub, dashboards, testAllowedOrigins), hub
}

func TestWebSocketHandler_HandleWS_NoUpgrade(t *testing.T) {
	e := echo.New()
	h, hub := newTestWebSocketHandler()

	// Plain GET without upgrade headers
	req := httptest.NewRequest(http.MethodGet, "/ws?window=month", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.HandleWS(c)

	// gorilla/websocket returns an error when upgrade fails (no upgrade headers)
	assert.Error(t, err)
	assert.Equal(t, 0, hub.TotalClientCount())
}

func TestWebSocketHandler_CheckOrigin(t *testing.T) {
	h, _ := newTestWebSocketHandler()

	tests := []struct {
		name     string
		origin   string
		expected bool
	}{
		{"no origin header", "", true},
		{"allowed local origin", "http://localhost:3000", true},
		{"allowed production origin", "https://expense-tracker.app", true},
		{"unknown origin", "https://evil.example", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.expected, h.checkOrigin(req))
		})
	}
}

func readEvent(t *testing.T, conn *ws.Conn) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var evt map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &evt))
	return evt
}

func TestWebSocketHandler_InitialDashboardAndWindowSwitch(t *testing.T) {
	h, hub := newTestWebSocketHandler(
		testutil.NewExpense("100", domain.CategoryFoodDining, "2020-01-05"),
		testutil.NewExpense("30", domain.CategoryTravel, "2020-02-10"),
	)

	e := echo.New()
	e.GET("/ws", h.HandleWS)
	srv := httptest.NewServer(e)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?window=all"
	conn, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	evt := readEvent(t, conn)
	assert.Equal(t, "dashboard.updated", evt["type"])
	payload := evt["payload"].(map[string]interface{})
	assert.Equal(t, "all", payload["window"])
	assert.Equal(t, "130.00", payload["total"])

	require.Eventually(t, func() bool {
		return hub.ClientCount(domain.TimeWindowAll) == 1
	}, time.Second, 5*time.Millisecond)

	// Switch to a window that excludes the 2020 expenses
	require.NoError(t, conn.WriteJSON(websocket.ClientMessage{Action: websocket.ActionSelectWindow, Window: "month"}))

	evt = readEvent(t, conn)
	payload = evt["payload"].(map[string]interface{})
	assert.Equal(t, "month", payload["window"])
	assert.Equal(t, "0.00", payload["total"])
	assert.Equal(t, 1, hub.ClientCount(domain.TimeWindowMonth))
	assert.Equal(t, 0, hub.ClientCount(domain.TimeWindowAll))
}

func TestWebSocketHandler_RejectsForeignOrigin(t *testing.T) {
	h, _ := newTestWebSocketHandler()

	e := echo.New()
	e.GET("/ws", h.HandleWS)
	srv := httptest.NewServer(e)
	defer srv.Close()

	header := http.Header{}
	header.Set("Origin", "https://evil.example")
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	_, resp, err := ws.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
