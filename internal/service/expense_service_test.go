package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aphiwit19/SimpleExpenseTracker/internal/domain"
	"github.com/aphiwit19/SimpleExpenseTracker/internal/testutil"
	"github.com/aphiwit19/SimpleExpenseTracker/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type expenseServiceFixture struct {
	svc       *ExpenseService
	repo      *testutil.MockExpenseRepository
	source    *testutil.StaticSnapshotSource
	notifier  *testutil.MockNotifier
	publisher *testutil.MockEventPublisher
}

func setupExpenseService(expenses ...*domain.Expense) expenseServiceFixture {
	f := expenseServiceFixture{
		repo:      testutil.NewMockExpenseRepository(),
		source:    testutil.NewStaticSnapshotSource(expenses...),
		notifier:  &testutil.MockNotifier{},
		publisher: &testutil.MockEventPublisher{},
	}
	f.svc = NewExpenseService(f.repo, f.source, f.notifier, 5)
	f.svc.SetEventPublisher(f.publisher)
	return f
}

func TestExpenseService_CreateExpense(t *testing.T) {
	f := setupExpenseService()
	date := day(2024, time.May, 3)

	created, err := f.svc.CreateExpense(context.Background(), CreateExpenseInput{
		Amount:      decimal.RequireFromString("120.50"),
		Description: "  Dinner  ",
		Category:    domain.CategoryFoodDining,
		Date:        &date,
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "Dinner", created.Description)
	assert.Equal(t, "120.5", created.Amount.String())
	assert.Equal(t, date, created.Date)
	assert.False(t, created.CreatedAt.IsZero())

	assert.Equal(t, 1, f.notifier.Calls())
	events := f.publisher.Published()
	require.Len(t, events, 1)
	assert.Equal(t, "expense.created", events[0].Type)
}

func TestExpenseService_CreateExpense_DefaultsDateToToday(t *testing.T) {
	f := setupExpenseService()

	created, err := f.svc.CreateExpense(context.Background(), CreateExpenseInput{
		Amount:      decimal.NewFromInt(10),
		Description: "Bus",
		Category:    domain.CategoryTransportation,
	})
	require.NoError(t, err)

	assert.Equal(t, util.Today(), created.Date)
}

func TestExpenseService_CreateExpense_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   CreateExpenseInput
		wantErr error
	}{
		{
			name:    "blank description",
			input:   CreateExpenseInput{Amount: decimal.NewFromInt(1), Description: "   ", Category: domain.CategoryOthers},
			wantErr: domain.ErrDescriptionRequired,
		},
		{
			name:    "description too long",
			input:   CreateExpenseInput{Amount: decimal.NewFromInt(1), Description: strings.Repeat("x", domain.MaxDescriptionLength+1), Category: domain.CategoryOthers},
			wantErr: domain.ErrDescriptionTooLong,
		},
		{
			name:    "zero amount",
			input:   CreateExpenseInput{Amount: decimal.Zero, Description: "Coffee", Category: domain.CategoryOthers},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			input:   CreateExpenseInput{Amount: decimal.NewFromInt(-5), Description: "Coffee", Category: domain.CategoryOthers},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "more than two decimal places",
			input:   CreateExpenseInput{Amount: decimal.RequireFromString("1.005"), Description: "Coffee", Category: domain.CategoryOthers},
			wantErr: domain.ErrAmountPrecision,
		},
		{
			name:    "rounds to zero",
			input:   CreateExpenseInput{Amount: decimal.RequireFromString("0.001"), Description: "Coffee", Category: domain.CategoryOthers},
			wantErr: domain.ErrAmountPrecision,
		},
		{
			name:    "missing category",
			input:   CreateExpenseInput{Amount: decimal.NewFromInt(5), Description: "Coffee"},
			wantErr: domain.ErrCategoryRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupExpenseService()

			created, err := f.svc.CreateExpense(context.Background(), tt.input)

			assert.Nil(t, created)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, f.notifier.Calls())
			assert.Empty(t, f.publisher.Published())
		})
	}
}

func TestExpenseService_CreateExpense_RepositoryFailure(t *testing.T) {
	f := setupExpenseService()
	f.repo.CreateFn = func(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
		return nil, errors.New("connection reset")
	}

	_, err := f.svc.CreateExpense(context.Background(), CreateExpenseInput{
		Amount:      decimal.NewFromInt(3),
		Description: "Snack",
		Category:    domain.CategoryFoodDining,
	})

	assert.ErrorIs(t, err, domain.ErrCreateFailed)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, 0, f.notifier.Calls())
}

func TestExpenseService_DeleteExpense(t *testing.T) {
	f := setupExpenseService()
	expense := testutil.NewExpense("25", domain.CategoryHealthcare, "2024-06-01")
	f.repo.AddExpense(expense)

	require.NoError(t, f.svc.DeleteExpense(context.Background(), expense.ID))

	assert.Empty(t, f.repo.Expenses)
	assert.Equal(t, 1, f.notifier.Calls())
	events := f.publisher.Published()
	require.Len(t, events, 1)
	assert.Equal(t, "expense.deleted", events[0].Type)
	assert.Equal(t, map[string]string{"id": expense.ID.String()}, events[0].Payload)
}

func TestExpenseService_DeleteExpense_NotFound(t *testing.T) {
	f := setupExpenseService()

	err := f.svc.DeleteExpense(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrExpenseNotFound)
	assert.False(t, errors.Is(err, domain.ErrDeleteFailed))
	assert.Equal(t, 0, f.notifier.Calls())
}

func TestExpenseService_DeleteExpense_RepositoryFailure(t *testing.T) {
	f := setupExpenseService()
	f.repo.DeleteFn = func(ctx context.Context, id uuid.UUID) error {
		return errors.New("deadlock detected")
	}

	err := f.svc.DeleteExpense(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrDeleteFailed)
	assert.Empty(t, f.publisher.Published())
}

func TestExpenseService_ListExpenses(t *testing.T) {
	f := setupExpenseService(sampleExpenses()...)

	result, err := f.svc.ListExpenses(ListRequest{Filters: domain.ExpenseFilters{Category: "Food"}, Page: 1})
	require.NoError(t, err)

	assert.Equal(t, 5, result.PageSize)
	assert.Equal(t, 2, result.TotalItems)
	assert.Equal(t, []string{"2024-02-01", "2024-01-05"}, dates(result.Data))
}

func TestExpenseService_ListExpenses_SourceError(t *testing.T) {
	f := setupExpenseService()
	f.source.Err = domain.ErrSubscriptionFailed

	result, err := f.svc.ListExpenses(ListRequest{Page: 1})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrSubscriptionFailed)
}

func TestExpenseService_WithoutPublisherOrNotifier(t *testing.T) {
	svc := NewExpenseService(testutil.NewMockExpenseRepository(), testutil.NewStaticSnapshotSource(), nil, 0)

	assert.Equal(t, domain.DefaultPageSize, svc.defaultPageSize)
	_, err := svc.CreateExpense(context.Background(), CreateExpenseInput{
		Amount:      decimal.NewFromInt(1),
		Description: "Gum",
		Category:    domain.CategoryOthers,
	})
	assert.NoError(t, err)
}

func TestExpenseService_Renderer(t *testing.T) {
	f := setupExpenseService()
	f.svc.SetRenderer(func(e *domain.Expense) interface{} {
		return e.Description
	})

	_, err := f.svc.CreateExpense(context.Background(), CreateExpenseInput{
		Amount:      decimal.NewFromInt(2),
		Description: "Stamps",
		Category:    domain.CategoryOthers,
	})
	require.NoError(t, err)

	events := f.publisher.Published()
	require.Len(t, events, 1)
	assert.Equal(t, "Stamps", events[0].Payload)
}
