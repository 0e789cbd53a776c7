package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aphiwit19/SimpleExpenseTracker/internal/domain"
	"github.com/aphiwit19/SimpleExpenseTracker/internal/service"
	"github.com/aphiwit19/SimpleExpenseTracker/internal/util"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ExpenseHandler handles expense-related HTTP requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
	}
}

// CreateExpenseRequest represents the create expense request body
type CreateExpenseRequest struct {
	Amount      string  `json:"amount"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Date        *string `json:"date,omitempty"`
}

// CategoriesResponse lists the selectable categories
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// GetCategories handles GET /api/v1/categories
func (h *ExpenseHandler) GetCategories(c echo.Context) error {
	categories := make([]string, len(domain.Categories))
	for i, category := range domain.Categories {
		categories[i] = string(category)
	}
	return c.JSON(http.StatusOK, CategoriesResponse{Categories: categories})
}

// CreateExpense handles POST /api/v1/expenses
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	var req CreateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	// Parse amount
	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	category := domain.Category(strings.TrimSpace(req.Category))
	if category != "" && !category.IsKnown() {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category", Message: "Unknown category"},
		})
	}

	// Parse expense date if provided
	var date *time.Time
	if req.Date != nil && *req.Date != "" {
		parsed, err := util.ParseDate(*req.Date, nil)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "date", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		date = &parsed
	}

	expense, err := h.expenseService.CreateExpense(c.Request().Context(), service.CreateExpenseInput{
		Amount:      amount,
		Description: req.Description,
		Category:    category,
		Date:        date,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDescriptionRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "description", Message: "Description is required"},
			})
		}
		if errors.Is(err, domain.ErrDescriptionTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "description", Message: "Description must be 255 characters or less"},
			})
		}
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount must be positive"},
			})
		}
		if errors.Is(err, domain.ErrAmountPrecision) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount must have at most 2 decimal places"},
			})
		}
		if errors.Is(err, domain.ErrCategoryRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "category", Message: "Category is required"},
			})
		}
		log.Error().Err(err).Msg("Failed to create expense")
		return NewInternalError(c, "Failed to create expense, please try again")
	}

	return c.JSON(http.StatusCreated, NewExpenseResponse(expense))
}

// GetExpenses handles GET /api/v1/expenses
// Query params: category, dateFrom, dateTo (YYYY-MM-DD), page, pageSize
func (h *ExpenseHandler) GetExpenses(c echo.Context) error {
	var filters domain.ExpenseFilters
	filters.Category = domain.Category(strings.TrimSpace(c.QueryParam("category")))

	var validationErrors []ValidationError
	if raw := c.QueryParam("dateFrom"); raw != "" {
		parsed, err := util.ParseDate(raw, nil)
		if err != nil {
			validationErrors = append(validationErrors, ValidationError{Field: "dateFrom", Message: "Must be in YYYY-MM-DD format"})
		} else {
			filters.DateFrom = &parsed
		}
	}
	if raw := c.QueryParam("dateTo"); raw != "" {
		parsed, err := util.ParseDate(raw, nil)
		if err != nil {
			validationErrors = append(validationErrors, ValidationError{Field: "dateTo", Message: "Must be in YYYY-MM-DD format"})
		} else {
			filters.DateTo = &parsed
		}
	}

	// A missing page means the first page, as after any filter change
	page := 1
	if raw := c.QueryParam("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			validationErrors = append(validationErrors, ValidationError{Field: "page", Message: "Must be a positive integer"})
		} else {
			page = parsed
		}
	}

	pageSize := 0
	if raw := c.QueryParam("pageSize"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > domain.MaxPageSize {
			validationErrors = append(validationErrors, ValidationError{Field: "pageSize", Message: "Must be between 1 and 100"})
		} else {
			pageSize = parsed
		}
	}

	if len(validationErrors) > 0 {
		return NewValidationError(c, "Invalid query parameters", validationErrors)
	}

	req := service.ListRequest{PageSize: pageSize}.WithFilters(filters).WithPage(page)
	result, err := h.expenseService.ListExpenses(req)
	if err != nil {
		if errors.Is(err, domain.ErrSubscriptionFailed) {
			return NewUnavailableError(c, "Expenses are not available yet, please try again")
		}
		log.Error().Err(err).Msg("Failed to list expenses")
		return NewInternalError(c, "Failed to list expenses")
	}

	return c.JSON(http.StatusOK, NewPaginatedExpensesResponse(result))
}

// DeleteExpense handles DELETE /api/v1/expenses/:id
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", []ValidationError{
			{Field: "id", Message: "Must be a valid UUID"},
		})
	}

	if err := h.expenseService.DeleteExpense(c.Request().Context(), id); err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		log.Error().Err(err).Str("expense_id", id.String()).Msg("Failed to delete expense")
		return NewInternalError(c, "Failed to delete expense, please try again")
	}

	return c.NoContent(http.StatusNoContent)
}
