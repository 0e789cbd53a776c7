package handler

import (
	"time"

	"github.com/aphiwit19/SimpleExpenseTracker/internal/domain"
	"github.com/aphiwit19/SimpleExpenseTracker/internal/util"
	"github.com/shopspring/decimal"
)

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID          string `json:"id"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	CreatedAt   string `json:"createdAt"`
}

// PaginatedExpensesResponse represents one page of the expense list
type PaginatedExpensesResponse struct {
	Data        []ExpenseResponse `json:"data"`
	Page        int               `json:"page"`
	PageSize    int               `json:"pageSize"`
	TotalItems  int               `json:"totalItems"`
	TotalPages  int               `json:"totalPages"`
	ShowingFrom int               `json:"showingFrom"`
	ShowingTo   int               `json:"showingTo"`
	HasNext     bool              `json:"hasNext"`
	HasPrev     bool              `json:"hasPrev"`
}

// BreakdownResponse is one category total
type BreakdownResponse struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

// PieSliceResponse is one pie chart slice
type PieSliceResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Color string `json:"color"`
}

// ProgressResponse is one progress bar
type ProgressResponse struct {
	Category   string  `json:"category"`
	Amount     string  `json:"amount"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

// DashboardResponse represents the dashboard API response
type DashboardResponse struct {
	Window       string              `json:"window"`
	Label        string              `json:"label"`
	Total        string              `json:"total"`
	Count        int                 `json:"count"`
	Breakdown    []BreakdownResponse `json:"breakdown"`
	PieData      []PieSliceResponse  `json:"pieData"`
	ProgressData []ProgressResponse  `json:"progressData"`
}

func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// NewExpenseResponse converts a domain expense to its API form
func NewExpenseResponse(e *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID.String(),
		Amount:      formatAmount(e.Amount),
		Description: e.Description,
		Category:    string(e.Category),
		Date:        e.Date.Format(util.DateLayout),
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
}

// NewPaginatedExpensesResponse converts a listing page to its API form
func NewPaginatedExpensesResponse(p *domain.PaginatedExpenses) PaginatedExpensesResponse {
	data := make([]ExpenseResponse, len(p.Data))
	for i, e := range p.Data {
		data[i] = NewExpenseResponse(e)
	}
	return PaginatedExpensesResponse{
		Data:        data,
		Page:        p.Page,
		PageSize:    p.PageSize,
		TotalItems:  p.TotalItems,
		TotalPages:  p.TotalPages,
		ShowingFrom: p.ShowingFrom,
		ShowingTo:   p.ShowingTo,
		HasNext:     p.HasNext,
		HasPrev:     p.HasPrev,
	}
}

// NewDashboardResponse converts a dashboard to its API form
func NewDashboardResponse(d *domain.Dashboard) DashboardResponse {
	breakdown := make([]BreakdownResponse, len(d.Breakdown))
	for i, b := range d.Breakdown {
		breakdown[i] = BreakdownResponse{Category: string(b.Category), Amount: formatAmount(b.Amount)}
	}

	pie := make([]PieSliceResponse, len(d.PieData))
	for i, s := range d.PieData {
		pie[i] = PieSliceResponse{Name: string(s.Name), Value: formatAmount(s.Value), Color: s.Color}
	}

	progress := make([]ProgressResponse, len(d.ProgressData))
	for i, p := range d.ProgressData {
		progress[i] = ProgressResponse{
			Category:   string(p.Category),
			Amount:     formatAmount(p.Amount),
			Percentage: p.Percentage,
			Color:      p.Color,
		}
	}

	return DashboardResponse{
		Window:       string(d.Window),
		Label:        d.Label,
		Total:        formatAmount(d.Total),
		Count:        d.Count,
		Breakdown:    breakdown,
		PieData:      pie,
		ProgressData: progress,
	}
}

// DashboardPayload adapts NewDashboardResponse for websocket events
func DashboardPayload(d *domain.Dashboard) interface{} {
	return NewDashboardResponse(d)
}

// ExpensePayload adapts NewExpenseResponse for websocket events
func ExpensePayload(e *domain.Expense) interface{} {
	return NewExpenseResponse(e)
}
