package domain

import "errors"

// Domain errors
var (
	ErrExpenseNotFound     = errors.New("expense not found")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrAmountPrecision     = errors.New("amount has more than two decimal places")
	ErrDescriptionRequired = errors.New("description is required")
	ErrDescriptionTooLong  = errors.New("description exceeds maximum length")
	ErrCategoryRequired    = errors.New("category is required")
	ErrCreateFailed        = errors.New("failed to create expense")
	ErrDeleteFailed        = errors.New("failed to delete expense")
	ErrSubscriptionFailed  = errors.New("failed to load expenses")
)
