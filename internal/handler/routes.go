package handler

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, healthHandler *HealthHandler, expenseHandler *ExpenseHandler, dashboardHandler *DashboardHandler, wsHandler *WebSocketHandler, middlewares ...echo.MiddlewareFunc) {
	// Health check endpoint
	e.GET("/health", healthHandler.Health)

	// API version 1
	api := e.Group("/api/v1", middlewares...)

	api.GET("/categories", expenseHandler.GetCategories)

	// Expense routes
	expenses := api.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	// Dashboard routes
	api.GET("/dashboard", dashboardHandler.GetDashboard)

	// WebSocket
	api.GET("/ws", wsHandler.HandleWS)
}
