package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/aphiwit19/SimpleExpenseTracker/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const (
	insertExpenseSQL = `
INSERT INTO expenses (id, amount, description, category, date, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, amount, description, category, date, created_at`

	deleteExpenseSQL = `DELETE FROM expenses WHERE id = $1`

	listExpensesSQL = `
SELECT id, amount, description, category, date, created_at
FROM expenses
ORDER BY created_at DESC, id`
)

// ExpenseRepository implements domain.ExpenseRepository using PostgreSQL
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

// Create inserts an expense and returns the stored row
func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	amount, err := decimalToPgNumeric(expense.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	createdAt := expense.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	row := r.pool.QueryRow(ctx, insertExpenseSQL,
		uuid.New(),
		amount,
		expense.Description,
		string(expense.Category),
		dateToPgDate(expense.Date),
		createdAt,
	)
	return scanExpense(row)
}

// Delete removes an expense by ID
func (r *ExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, deleteExpenseSQL, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

// List returns every expense, most recently created first
func (r *ExpenseRepository) List(ctx context.Context) ([]*domain.Expense, error) {
	rows, err := r.pool.Query(ctx, listExpensesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := make([]*domain.Expense, 0)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return expenses, nil
}

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var (
		id          uuid.UUID
		amount      pgtype.Numeric
		description string
		category    string
		date        pgtype.Date
		createdAt   pgtype.Timestamptz
	)
	if err := row.Scan(&id, &amount, &description, &category, &date, &createdAt); err != nil {
		return nil, err
	}
	return &domain.Expense{
		ID:          id,
		Amount:      pgNumericToDecimal(amount),
		Description: description,
		Category:    domain.Category(category),
		Date:        pgDateToTime(date),
		CreatedAt:   createdAt.Time,
	}, nil
}

func decimalToPgNumeric(d decimal.Decimal) (pgtype.Numeric, error) {
	var num pgtype.Numeric
	if err := num.Scan(d.String()); err != nil {
		return pgtype.Numeric{}, err
	}
	return num, nil
}

func pgNumericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	if n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

// dateToPgDate keeps the calendar day the caller sees, whatever its location
func dateToPgDate(t time.Time) pgtype.Date {
	if t.IsZero() {
		return pgtype.Date{}
	}
	y, m, d := t.Date()
	return pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

// pgDateToTime returns midnight of the stored day in the local zone
func pgDateToTime(d pgtype.Date) time.Time {
	if !d.Valid {
		return time.Time{}
	}
	y, m, day := d.Time.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.Local)
}
