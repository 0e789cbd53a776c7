package service

import (
	"time"

	"github.com/aphiwit19/SimpleExpenseTracker/internal/domain"
	"github.com/aphiwit19/SimpleExpenseTracker/internal/util"
)

const weekDuration = 7 * 24 * time.Hour

// WindowStart returns the inclusive lower bound of window evaluated at now.
// The second result is false for TimeWindowAll and unknown windows, which
// have no bound.
func WindowStart(window domain.TimeWindow, now time.Time) (time.Time, bool) {
	switch window {
	case domain.TimeWindowWeek:
		// Rolling, not calendar-week aligned
		return now.Add(-weekDuration), true
	case domain.TimeWindowMonth:
		return util.StartOfMonth(now), true
	case domain.TimeWindowYear:
		return util.StartOfYear(now), true
	default:
		return time.Time{}, false
	}
}

// FilterByWindow keeps the expenses dated on or after the window start.
// For TimeWindowAll (and unknown windows) the input slice is returned as is;
// callers must not mutate the result.
func FilterByWindow(expenses []*domain.Expense, window domain.TimeWindow, now time.Time) []*domain.Expense {
	start, bounded := WindowStart(window, now)
	if !bounded {
		return expenses
	}

	filtered := make([]*domain.Expense, 0, len(expenses))
	for _, expense := range expenses {
		if expense == nil {
			continue
		}
		if !expense.Date.Before(start) {
			filtered = append(filtered, expense)
		}
	}
	return filtered
}
