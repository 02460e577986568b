package domain

import (
	"context"
	"errors"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
	ErrUnauthorized  = errors.New("unauthorized access")
)

// Transactor runs fn inside a single storage transaction. Repository calls
// made with the ctx passed to fn join that transaction; the progress
// orchestrator relies on this for its all-or-nothing contract.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type HabitRepository interface {
	// Create persists a new habit definition.
	Create(ctx context.Context, habit *Habit) error

	// GetByID retrieves a habit by its unique identifier.
	GetByID(ctx context.Context, id string) (*Habit, error)

	// GetByIDForUpdate retrieves a habit and, inside a transaction, takes a
	// row lock on it. Concurrent check-ins for the same habit serialize on
	// this lock, which is what keeps the prior-completion read and the streak
	// write from racing.
	GetByIDForUpdate(ctx context.Context, id string) (*Habit, error)

	// ListByUserID retrieves all habits associated with a specific user.
	ListByUserID(ctx context.Context, userID string) ([]*Habit, error)

	// ListActiveByCategory retrieves the user's non-archived habits in one
	// category. The ledger filters these by due date.
	ListActiveByCategory(ctx context.Context, userID, category string) ([]*Habit, error)

	// Update modifies a habit's definition fields.
	Update(ctx context.Context, habit *Habit) error

	// UpdateStreaks patches only the streak fields, leaving the definition
	// untouched.
	UpdateStreaks(ctx context.Context, id string, current, best int, lastCompleted string) error

	// Delete permanently removes a habit.
	Delete(ctx context.Context, id string) error
}
