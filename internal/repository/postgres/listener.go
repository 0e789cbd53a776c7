package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// ExpensesChannel is the NOTIFY channel the expenses trigger publishes on
const ExpensesChannel = "expenses_changed"

const (
	minReconnectDelay = 1 * time.Second
	maxReconnectDelay = 30 * time.Second
)

// Notifier receives a signal per change notification
type Notifier interface {
	Notify()
}

// ChangeListener forwards Postgres notifications on ExpensesChannel to a Notifier
type ChangeListener struct {
	pool     *pgxpool.Pool
	notifier Notifier
	logger   zerolog.Logger
}

// NewChangeListener creates a new ChangeListener
func NewChangeListener(pool *pgxpool.Pool, notifier Notifier, logger zerolog.Logger) *ChangeListener {
	return &ChangeListener{
		pool:     pool,
		notifier: notifier,
		logger:   logger.With().Str("component", "change_listener").Logger(),
	}
}

// Run listens until ctx is cancelled, reconnecting with backoff when the
// connection drops. It always returns nil after cancellation.
func (l *ChangeListener) Run(ctx context.Context) error {
	delay := minReconnectDelay
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			l.logger.Info().Msg("Change listener stopped")
			return nil
		}

		l.logger.Warn().Err(err).Dur("retry_in", delay).Msg("Change listener disconnected")
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
		delay = nextDelay(delay)
	}
}

func (l *ChangeListener) listen(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{ExpensesChannel}.Sanitize()); err != nil {
		return err
	}
	l.logger.Info().Str("channel", ExpensesChannel).Msg("Listening for expense changes")

	// A change may have happened while we were disconnected
	l.notifier.Notify()

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				// Connection state is unknown after an interrupted wait
				conn.Conn().Close(context.Background())
			}
			return err
		}

		l.logger.Debug().
			Str("channel", notification.Channel).
			Str("payload", notification.Payload).
			Msg("Expense change notification")
		l.notifier.Notify()
	}
}

func nextDelay(current time.Duration) time.Duration {
	next := current * 2
	if next > maxReconnectDelay {
		return maxReconnectDelay
	}
	return next
}
