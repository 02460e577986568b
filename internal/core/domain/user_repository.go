package domain

import "context"

type UserRepository interface {
	Create(ctx context.Context, user *User) error

	GetByID(ctx context.Context, id string) (*User, error)

	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByIDForUpdate row-locks the user inside a transaction so concurrent
	// check-ins across habits serialize their global-streak writes.
	GetByIDForUpdate(ctx context.Context, id string) (*User, error)

	// UpdateGlobalStreak patches only the global streak fields.
	UpdateGlobalStreak(ctx context.Context, id string, streak int, lastCompleted string) error
}
