package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/aphiwit19/SimpleExpenseTracker/internal/domain"
	"github.com/aphiwit19/SimpleExpenseTracker/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockExpenseRepository is a mock implementation of domain.ExpenseRepository
type MockExpenseRepository struct {
	mu       sync.Mutex
	Expenses map[uuid.UUID]*domain.Expense
	order    []uuid.UUID
	CreateFn func(ctx context.Context, expense *domain.Expense) (*domain.Expense, error)
	DeleteFn func(ctx context.Context, id uuid.UUID) error
	ListFn   func(ctx context.Context) ([]*domain.Expense, error)

	listCalls int
}

// NewMockExpenseRepository creates a new MockExpenseRepository
func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{
		Expenses: make(map[uuid.UUID]*domain.Expense),
	}
}

// AddExpense adds an expense directly for test setup
func (m *MockExpenseRepository) AddExpense(expense *domain.Expense) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	if _, ok := m.Expenses[expense.ID]; !ok {
		m.order = append(m.order, expense.ID)
	}
	m.Expenses[expense.ID] = expense
}

// Create stores an expense with a fresh ID
func (m *MockExpenseRepository) Create(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, expense)
	}
	stored := *expense
	stored.ID = uuid.New()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	m.AddExpense(&stored)
	return &stored, nil
}

// Delete removes an expense by ID
func (m *MockExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Expenses[id]; !ok {
		return domain.ErrExpenseNotFound
	}
	delete(m.Expenses, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns expenses newest-added first
func (m *MockExpenseRepository) List(ctx context.Context) ([]*domain.Expense, error) {
	m.mu.Lock()
	m.listCalls++
	m.mu.Unlock()

	if m.ListFn != nil {
		return m.ListFn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Expense, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		result = append(result, m.Expenses[m.order[i]])
	}
	return result, nil
}

// ListCalls returns how many times List was called
func (m *MockExpenseRepository) ListCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls
}

// StaticSnapshotSource serves a fixed snapshot
type StaticSnapshotSource struct {
	mu       sync.Mutex
	snapshot domain.Snapshot
	Err      error
}

// NewStaticSnapshotSource creates a source serving expenses as version 1
func NewStaticSnapshotSource(expenses ...*domain.Expense) *StaticSnapshotSource {
	return &StaticSnapshotSource{
		snapshot: domain.Snapshot{Version: 1, Expenses: expenses, LoadedAt: time.Now()},
	}
}

// Snapshot returns the current snapshot or Err
func (s *StaticSnapshotSource) Snapshot() (domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return domain.Snapshot{}, s.Err
	}
	return s.snapshot, nil
}

// Replace swaps the expense set and bumps the version
func (s *StaticSnapshotSource) Replace(expenses ...*domain.Expense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = domain.Snapshot{
		Version:  s.snapshot.Version + 1,
		Expenses: expenses,
		LoadedAt: time.Now(),
	}
}

// MockNotifier counts change signals
type MockNotifier struct {
	mu    sync.Mutex
	calls int
}

// Notify records a signal
func (m *MockNotifier) Notify() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
}

// Calls returns how many signals were received
func (m *MockNotifier) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockEventPublisher captures published events
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []websocket.Event
}

// Publish records an event
func (m *MockEventPublisher) Publish(event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

// Published returns a copy of the recorded events
func (m *MockEventPublisher) Published() []websocket.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]websocket.Event, len(m.Events))
	copy(out, m.Events)
	return out
}

// NewExpense builds an unsaved expense for tests; amount is a decimal string
// and date is YYYY-MM-DD in the local zone
func NewExpense(amount string, category domain.Category, date string) *domain.Expense {
	d, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		panic(err)
	}
	return &domain.Expense{
		ID:          uuid.New(),
		Amount:      decimal.RequireFromString(amount),
		Description: string(category) + " " + date,
		Category:    category,
		Date:        d,
		CreatedAt:   d,
	}
}
