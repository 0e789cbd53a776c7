package handler

import (
	"net/http"

	"github.com/aphiwit19/SimpleExpenseTracker/internal/service"
	"github.com/labstack/echo/v4"
)

// HealthHandler reports liveness and whether the expense feed has data
type HealthHandler struct {
	source service.SnapshotSource
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(source service.SnapshotSource) *HealthHandler {
	return &HealthHandler{source: source}
}

// HealthResponse is the health check body
type HealthResponse struct {
	Status          string `json:"status"`
	SnapshotVersion uint64 `json:"snapshotVersion"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c echo.Context) error {
	snapshot, err := h.source.Snapshot()
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "degraded"})
	}
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", SnapshotVersion: snapshot.Version})
}
