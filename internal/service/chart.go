package service

import (
	"github.com/aphiwit19/SimpleExpenseTracker/internal/domain"
	"github.com/shopspring/decimal"
)

// PiePalette is cycled positionally over pie slices
var PiePalette = []string{
	"#ff6b6b", "#4ecdc4", "#45b7d1", "#96ceb4", "#ffeaa7",
	"#dda0dd", "#98d8c8", "#f7dc6f", "#bb8fce",
}

// ProgressPalette is cycled positionally over progress bars
var ProgressPalette = []string{
	"#ff6b6b", "#4ecdc4", "#45b7d1", "#96ceb4", "#ffeaa7",
}

var hundred = decimal.NewFromInt(100)

// Percentage returns 100*amount/total, or 0 when total is not positive
func Percentage(amount, total decimal.Decimal) float64 {
	if !total.IsPositive() {
		return 0
	}
	return amount.Mul(hundred).Div(total).InexactFloat64()
}

// PieData projects a breakdown onto pie slices. Colors follow position in
// the breakdown, not category identity.
func PieData(breakdown []domain.CategoryBreakdown) []domain.ChartSlice {
	pie := make([]domain.ChartSlice, 0, len(breakdown))
	for i, entry := range breakdown {
		pie = append(pie, domain.ChartSlice{
			Name:  entry.Category,
			Value: entry.Amount,
			Color: PiePalette[i%len(PiePalette)],
		})
	}
	return pie
}

// ProgressData projects the head of an already sorted breakdown onto at
// most domain.MaxProgressEntries progress bars.
func ProgressData(breakdown []domain.CategoryBreakdown, grandTotal decimal.Decimal) []domain.ProgressEntry {
	n := min(len(breakdown), domain.MaxProgressEntries)

	entries := make([]domain.ProgressEntry, 0, n)
	for i, entry := range breakdown[:n] {
		entries = append(entries, domain.ProgressEntry{
			Category:   entry.Category,
			Amount:     entry.Amount,
			Percentage: Percentage(entry.Amount, grandTotal),
			Color:      ProgressPalette[i%len(ProgressPalette)],
		})
	}
	return entries
}
