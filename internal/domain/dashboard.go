package domain

import "github.com/shopspring/decimal"

// CategoryBreakdown is the summed amount for one category
type CategoryBreakdown struct {
	Category Category        `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// ChartSlice is one pie chart slice
type ChartSlice struct {
	Name  Category        `json:"name"`
	Value decimal.Decimal `json:"value"`
	Color string          `json:"color"`
}

// ProgressEntry is one progress bar. Percentage is 0-100 and unrounded.
type ProgressEntry struct {
	Category   Category        `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage float64         `json:"percentage"`
	Color      string          `json:"color"`
}

// MaxProgressEntries is the number of categories shown as progress bars
const MaxProgressEntries = 5

// Dashboard contains the derived view for one time window
type Dashboard struct {
	Window       TimeWindow          `json:"window"`
	Label        string              `json:"label"`
	Filtered     []*Expense          `json:"filtered"`
	Count        int                 `json:"count"`
	Total        decimal.Decimal     `json:"total"`
	Breakdown    []CategoryBreakdown `json:"breakdown"`
	PieData      []ChartSlice        `json:"pieData"`
	ProgressData []ProgressEntry     `json:"progressData"`
}
