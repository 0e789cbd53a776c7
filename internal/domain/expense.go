package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryFoodDining     Category = "Food & Dining"
	CategoryTransportation Category = "Transportation"
	CategoryShopping       Category = "Shopping"
	CategoryEntertainment  Category = "Entertainment"
	CategoryBillsUtilities Category = "Bills & Utilities"
	CategoryHealthcare     Category = "Healthcare"
	CategoryEducation      Category = "Education"
	CategoryTravel         Category = "Travel"
	CategoryOthers         Category = "Others"
)

// Categories lists the enumerated category set in display order
var Categories = []Category{
	CategoryFoodDining,
	CategoryTransportation,
	CategoryShopping,
	CategoryEntertainment,
	CategoryBillsUtilities,
	CategoryHealthcare,
	CategoryEducation,
	CategoryTravel,
	CategoryOthers,
}

// IsKnown reports whether c belongs to the enumerated category set.
// Unknown categories are still grouped under their literal value.
func (c Category) IsKnown() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Expense struct {
	ID          uuid.UUID       `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    Category        `json:"category"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Validation constants
const (
	MaxDescriptionLength = 255
	AmountScale          = 2 // NUMERIC(12, 2)
)

// ExpenseFilters holds the optional list criteria. Zero values mean
// "no constraint on this dimension".
type ExpenseFilters struct {
	Category Category
	DateFrom *time.Time
	DateTo   *time.Time
}

// IsEmpty returns true when no criterion is set
func (f ExpenseFilters) IsEmpty() bool {
	return f.Category == "" && f.DateFrom == nil && f.DateTo == nil
}

const (
	DefaultPageSize = 5
	MaxPageSize     = 100
)

type PaginatedExpenses struct {
	Data        []*Expense `json:"data"`
	Page        int        `json:"page"`
	PageSize    int        `json:"pageSize"`
	TotalItems  int        `json:"totalItems"`
	TotalPages  int        `json:"totalPages"`
	ShowingFrom int        `json:"showingFrom"`
	ShowingTo   int        `json:"showingTo"`
	HasNext     bool       `json:"hasNext"`
	HasPrev     bool       `json:"hasPrev"`
}

// Snapshot is an immutable-by-contract view of the full expense set, as
// delivered by the storage subscription. Version increases on every reload.
type Snapshot struct {
	Version  uint64
	Expenses []*Expense
	LoadedAt time.Time
}

// ExpenseRepository is the storage collaborator. List returns every
// expense ordered by CreatedAt descending.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *Expense) (*Expense, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*Expense, error)
}
