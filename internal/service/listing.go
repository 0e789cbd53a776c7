package service

import (
	"slices"
	"time"

	"github.com/aphiwit19/SimpleExpenseTracker/internal/domain"
	"github.com/aphiwit19/SimpleExpenseTracker/internal/util"
)

// ListRequest is the caller-held listing state: criteria plus the active page
type ListRequest struct {
	Filters  domain.ExpenseFilters
	Page     int
	PageSize int
}

// WithFilters returns a copy using filters, reset to the first page.
// A previously chosen page number is not valid for a new result set.
func (r ListRequest) WithFilters(filters domain.ExpenseFilters) ListRequest {
	r.Filters = filters
	r.Page = 1
	return r
}

// WithPage returns a copy pointing at page
func (r ListRequest) WithPage(page int) ListRequest {
	r.Page = page
	return r
}

// ApplyFilters returns the expenses passing every non-empty criterion.
// Date bounds are inclusive and compared at day granularity: the bound's
// time of day is dropped, the expense date is compared as is.
func ApplyFilters(expenses []*domain.Expense, filters domain.ExpenseFilters) []*domain.Expense {
	var from, to *time.Time
	if filters.DateFrom != nil {
		d := util.StartOfDay(*filters.DateFrom)
		from = &d
	}
	if filters.DateTo != nil {
		d := util.StartOfDay(*filters.DateTo)
		to = &d
	}

	filtered := make([]*domain.Expense, 0, len(expenses))
	for _, expense := range expenses {
		if expense == nil {
			continue
		}
		if filters.Category != "" && expense.Category != filters.Category {
			continue
		}
		if from != nil && expense.Date.Before(*from) {
			continue
		}
		if to != nil && expense.Date.After(*to) {
			continue
		}
		filtered = append(filtered, expense)
	}
	return filtered
}

// SortByDateDesc returns a copy ordered newest Date first. Equal dates keep
// their input order.
func SortByDateDesc(expenses []*domain.Expense) []*domain.Expense {
	sorted := slices.Clone(expenses)
	slices.SortStableFunc(sorted, func(a, b *domain.Expense) int {
		return b.Date.Compare(a.Date)
	})
	return sorted
}

// TotalPages returns ceil(count/pageSize), 0 for an empty list
func TotalPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// Page returns the 1-based page window [(page-1)*size, page*size) clamped to
// the list. Pages past the end, page < 1 and size < 1 yield an empty slice.
func Page(expenses []*domain.Expense, page, pageSize int) []*domain.Expense {
	if page < 1 || pageSize < 1 {
		return []*domain.Expense{}
	}

	if len(expenses) == 0 || page-1 > (len(expenses)-1)/pageSize {
		return []*domain.Expense{}
	}
	start := (page - 1) * pageSize
	end := min(start+pageSize, len(expenses))

	return expenses[start:end]
}

// NormalizePageSize applies the default and the upper cap
func NormalizePageSize(pageSize, defaultSize int) int {
	if pageSize < 1 {
		pageSize = defaultSize
	}
	if pageSize < 1 {
		pageSize = domain.DefaultPageSize
	}
	if pageSize > domain.MaxPageSize {
		pageSize = domain.MaxPageSize
	}
	return pageSize
}

// ListExpenses filters, sorts newest first and extracts one page
func ListExpenses(expenses []*domain.Expense, req ListRequest) *domain.PaginatedExpenses {
	sorted := SortByDateDesc(ApplyFilters(expenses, req.Filters))

	pageSize := NormalizePageSize(req.PageSize, domain.DefaultPageSize)
	page := req.Page
	if page < 1 {
		page = 1
	}

	data := Page(sorted, page, pageSize)
	totalPages := TotalPages(len(sorted), pageSize)

	result := &domain.PaginatedExpenses{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: len(sorted),
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
	if len(data) > 0 {
		result.ShowingFrom = (page-1)*pageSize + 1
		result.ShowingTo = result.ShowingFrom + len(data) - 1
	}
	return result
}
