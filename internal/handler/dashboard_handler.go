package handler

import (
	"errors"
	"net/http"

	"github.com/aphiwit19/SimpleExpenseTracker/internal/domain"
	"github.com/aphiwit19/SimpleExpenseTracker/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetDashboard handles GET /api/v1/dashboard
// Accepts an optional window query param: week, month, year or all (default)
func (h *DashboardHandler) GetDashboard(c echo.Context) error {
	window := domain.ParseTimeWindow(c.QueryParam("window"))

	dashboard, err := h.dashboardService.GetDashboard(window)
	if err != nil {
		if errors.Is(err, domain.ErrSubscriptionFailed) {
			return NewUnavailableError(c, "Expenses are not available yet, please try again")
		}
		log.Error().Err(err).Str("window", string(window)).Msg("Failed to get dashboard")
		return NewInternalError(c, "Failed to get dashboard")
	}

	return c.JSON(http.StatusOK, NewDashboardResponse(dashboard))
}
