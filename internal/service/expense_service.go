package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aphiwit19/SimpleExpenseTracker/internal/domain"
	"github.com/aphiwit19/SimpleExpenseTracker/internal/util"
	"github.com/aphiwit19/SimpleExpenseTracker/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ExpenseService handles expense creation, deletion and listing
type ExpenseService struct {
	expenseRepo     domain.ExpenseRepository
	source          SnapshotSource
	notifier        ChangeNotifier
	eventPublisher  websocket.EventPublisher
	render          func(*domain.Expense) interface{}
	defaultPageSize int
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo domain.ExpenseRepository, source SnapshotSource, notifier ChangeNotifier, defaultPageSize int) *ExpenseService {
	if defaultPageSize <= 0 {
		defaultPageSize = domain.DefaultPageSize
	}
	return &ExpenseService{
		expenseRepo:     expenseRepo,
		source:          source,
		notifier:        notifier,
		defaultPageSize: defaultPageSize,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ExpenseService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *ExpenseService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// SetRenderer sets how expenses are shaped in event payloads
func (s *ExpenseService) SetRenderer(render func(*domain.Expense) interface{}) {
	s.render = render
}

func (s *ExpenseService) payload(expense *domain.Expense) interface{} {
	if s.render == nil {
		return expense
	}
	return s.render(expense)
}

func (s *ExpenseService) notifyChanged() {
	if s.notifier != nil {
		s.notifier.Notify()
	}
}

// CreateExpenseInput holds the input for creating an expense
type CreateExpenseInput struct {
	Amount      decimal.Decimal
	Description string
	Category    domain.Category
	Date        *time.Time
}

// CreateExpense validates input and stores a new expense
func (s *ExpenseService) CreateExpense(ctx context.Context, input CreateExpenseInput) (*domain.Expense, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.ErrDescriptionRequired
	}
	if len(description) > domain.MaxDescriptionLength {
		return nil, domain.ErrDescriptionTooLong
	}

	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if !input.Amount.Equal(input.Amount.Round(domain.AmountScale)) {
		return nil, domain.ErrAmountPrecision
	}

	category := domain.Category(strings.TrimSpace(string(input.Category)))
	if category == "" {
		return nil, domain.ErrCategoryRequired
	}

	// Default date to today if not provided
	date := util.Today()
	if input.Date != nil {
		date = *input.Date
	}

	expense := &domain.Expense{
		Amount:      input.Amount,
		Description: description,
		Category:    category,
		Date:        date,
		CreatedAt:   time.Now(),
	}

	created, err := s.expenseRepo.Create(ctx, expense)
	if err != nil {
		log.Error().Err(err).Str("category", string(category)).Msg("Failed to create expense")
		return nil, fmt.Errorf("%w: %v", domain.ErrCreateFailed, err)
	}

	s.publishEvent(websocket.ExpenseCreated(s.payload(created)))
	s.notifyChanged()

	return created, nil
}

// DeleteExpense removes an expense by ID
func (s *ExpenseService) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	if err := s.expenseRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return err
		}
		log.Error().Err(err).Str("expense_id", id.String()).Msg("Failed to delete expense")
		return fmt.Errorf("%w: %v", domain.ErrDeleteFailed, err)
	}

	s.publishEvent(websocket.ExpenseDeleted(map[string]string{"id": id.String()}))
	s.notifyChanged()

	return nil
}

// ListExpenses returns one page of the filtered expense list, newest first
func (s *ExpenseService) ListExpenses(req ListRequest) (*domain.PaginatedExpenses, error) {
	snapshot, err := s.source.Snapshot()
	if err != nil {
		return nil, err
	}

	if req.PageSize <= 0 {
		req.PageSize = s.defaultPageSize
	}
	return ListExpenses(snapshot.Expenses, req), nil
}
