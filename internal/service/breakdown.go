package service

import (
	"slices"

	"github.com/aphiwit19/SimpleExpenseTracker/internal/domain"
	"github.com/shopspring/decimal"
)

// TotalAmount sums the amounts of expenses
func TotalAmount(expenses []*domain.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, expense := range expenses {
		if expense == nil {
			continue
		}
		total = total.Add(expense.Amount)
	}
	return total
}

// CategoryBreakdown groups expenses by exact category and sums each group.
// Entries are ordered by descending amount; equal amounts keep the order in
// which their category first appeared in expenses.
func CategoryBreakdown(expenses []*domain.Expense) []domain.CategoryBreakdown {
	index := make(map[domain.Category]int)
	breakdown := make([]domain.CategoryBreakdown, 0)

	for _, expense := range expenses {
		if expense == nil {
			continue
		}
		i, ok := index[expense.Category]
		if !ok {
			index[expense.Category] = len(breakdown)
			breakdown = append(breakdown, domain.CategoryBreakdown{
				Category: expense.Category,
				Amount:   expense.Amount,
			})
			continue
		}
		breakdown[i].Amount = breakdown[i].Amount.Add(expense.Amount)
	}

	slices.SortStableFunc(breakdown, func(a, b domain.CategoryBreakdown) int {
		return b.Amount.Cmp(a.Amount)
	})

	return breakdown
}
