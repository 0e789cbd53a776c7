package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aphiwit19/SimpleExpenseTracker/internal/domain"
	"github.com/rs/zerolog"
)

// SnapshotFunc receives every new expense snapshot
type SnapshotFunc func(snapshot domain.Snapshot)

// SnapshotSource provides the latest expense snapshot
type SnapshotSource interface {
	Snapshot() (domain.Snapshot, error)
}

// ChangeNotifier is told when the stored expense set changed
type ChangeNotifier interface {
	Notify()
}

// ExpenseFeed turns the expense repository into a push subscription.
// Change signals coalesce, so a burst of writes produces at most one extra
// reload; deliveries to subscribers are serialized and always carry the
// latest loaded snapshot.
type ExpenseFeed struct {
	repo           domain.ExpenseRepository
	logger         zerolog.Logger
	resyncInterval time.Duration
	loadTimeout    time.Duration

	notifyCh chan struct{}
	stopCh   chan struct{}
	doneCh   chan struct{}
	mu       sync.Mutex
	running  bool
	stopOnce sync.Once

	// deliverMu serializes snapshot replacement and subscriber callbacks
	deliverMu   sync.Mutex
	snapMu      sync.RWMutex
	snapshot    domain.Snapshot
	lastErr     error
	subscribers map[uint64]SnapshotFunc
	nextSubID   uint64
}

// ExpenseFeedConfig holds configuration for the expense feed
type ExpenseFeedConfig struct {
	ResyncInterval time.Duration // Reload even without change signals
	LoadTimeout    time.Duration // Upper bound for one repository load
}

// DefaultExpenseFeedConfig returns sensible defaults
func DefaultExpenseFeedConfig() ExpenseFeedConfig {
	return ExpenseFeedConfig{
		ResyncInterval: 5 * time.Minute,
		LoadTimeout:    10 * time.Second,
	}
}

// NewExpenseFeed creates a new ExpenseFeed
func NewExpenseFeed(repo domain.ExpenseRepository, logger zerolog.Logger, config ExpenseFeedConfig) *ExpenseFeed {
	defaults := DefaultExpenseFeedConfig()
	if config.ResyncInterval <= 0 {
		config.ResyncInterval = defaults.ResyncInterval
	}
	if config.LoadTimeout <= 0 {
		config.LoadTimeout = defaults.LoadTimeout
	}

	return &ExpenseFeed{
		repo:           repo,
		logger:         logger.With().Str("component", "expense_feed").Logger(),
		resyncInterval: config.ResyncInterval,
		loadTimeout:    config.LoadTimeout,
		notifyCh:       make(chan struct{}, 1),
		stopCh:         make(chan struct{}),
		doneCh:         make(chan struct{}),
		subscribers:    make(map[uint64]SnapshotFunc),
	}
}

// Start begins the background reload loop
func (f *ExpenseFeed) Start(ctx context.Context) {
	f.mu.Lock()
	if f.running {
		f.mu.Unlock()
		return
	}
	f.running = true
	f.mu.Unlock()

	f.logger.Info().
		Dur("resync_interval", f.resyncInterval).
		Msg("Starting expense feed")

	go f.run(ctx)
}

// Stop stops the reload loop and waits for it to exit
func (f *ExpenseFeed) Stop() {
	f.mu.Lock()
	if !f.running {
		f.mu.Unlock()
		return
	}
	f.mu.Unlock()

	f.logger.Info().Msg("Stopping expense feed")
	f.stopOnce.Do(func() { close(f.stopCh) })
	<-f.doneCh
	f.logger.Info().Msg("Expense feed stopped")
}

// IsRunning returns whether the reload loop is running
func (f *ExpenseFeed) IsRunning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

// Notify signals that the stored expense set changed. It never blocks.
func (f *ExpenseFeed) Notify() {
	select {
	case f.notifyCh <- struct{}{}:
	default:
		// A reload is already pending
	}
}

// Subscribe registers fn for every future snapshot. If a snapshot is
// already loaded, fn receives it before Subscribe returns. The returned
// function removes the subscription.
func (f *ExpenseFeed) Subscribe(fn SnapshotFunc) (unsubscribe func()) {
	f.deliverMu.Lock()
	defer f.deliverMu.Unlock()

	f.snapMu.Lock()
	id := f.nextSubID
	f.nextSubID++
	f.subscribers[id] = fn
	current := f.snapshot
	f.snapMu.Unlock()

	if current.Version > 0 {
		fn(current)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			f.snapMu.Lock()
			delete(f.subscribers, id)
			f.snapMu.Unlock()
		})
	}
}

// Snapshot returns the latest loaded snapshot. Until the first successful
// load it returns domain.ErrSubscriptionFailed, wrapping the last load error
// when there is one.
func (f *ExpenseFeed) Snapshot() (domain.Snapshot, error) {
	f.snapMu.RLock()
	defer f.snapMu.RUnlock()

	if f.snapshot.Version == 0 {
		if f.lastErr != nil {
			return domain.Snapshot{}, fmt.Errorf("%w: %v", domain.ErrSubscriptionFailed, f.lastErr)
		}
		return domain.Snapshot{}, fmt.Errorf("%w: not loaded yet", domain.ErrSubscriptionFailed)
	}
	return f.snapshot, nil
}

// Reload loads the expense set and delivers it to every subscriber
func (f *ExpenseFeed) Reload(ctx context.Context) error {
	loadCtx, cancel := context.WithTimeout(ctx, f.loadTimeout)
	defer cancel()

	expenses, err := f.repo.List(loadCtx)
	if err != nil {
		f.snapMu.Lock()
		f.lastErr = err
		f.snapMu.Unlock()
		f.logger.Error().Err(err).Msg("Failed to load expenses")
		return fmt.Errorf("%w: %v", domain.ErrSubscriptionFailed, err)
	}

	f.deliverMu.Lock()
	defer f.deliverMu.Unlock()

	f.snapMu.Lock()
	f.snapshot = domain.Snapshot{
		Version:  f.snapshot.Version + 1,
		Expenses: expenses,
		LoadedAt: time.Now(),
	}
	f.lastErr = nil
	snapshot := f.snapshot
	subscribers := make([]SnapshotFunc, 0, len(f.subscribers))
	for _, fn := range f.subscribers {
		subscribers = append(subscribers, fn)
	}
	f.snapMu.Unlock()

	for _, fn := range subscribers {
		fn(snapshot)
	}

	f.logger.Debug().
		Uint64("version", snapshot.Version).
		Int("expenses", len(expenses)).
		Int("subscribers", len(subscribers)).
		Msg("Delivered expense snapshot")

	return nil
}

// run is the main loop for the expense feed
func (f *ExpenseFeed) run(ctx context.Context) {
	defer close(f.doneCh)

	// Load immediately on startup
	_ = f.Reload(ctx)

	ticker := time.NewTicker(f.resyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			f.setStopped()
			return
		case <-f.stopCh:
			f.setStopped()
			return
		case <-f.notifyCh:
			_ = f.Reload(ctx)
		case <-ticker.C:
			_ = f.Reload(ctx)
		}
	}
}

func (f *ExpenseFeed) setStopped() {
	f.mu.Lock()
	f.running = false
	f.mu.Unlock()
}
