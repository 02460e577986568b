package domain

import (
	"context"
	"errors"
)

var ErrLogNotFound = errors.New("daily log not found")

type DailyLogRepository interface {
	// GetByHabitAndDate retrieves the single log for a (habit, date) pair.
	GetByHabitAndDate(ctx context.Context, habitID, date string) (*DailyLog, error)

	// Upsert inserts the log or overwrites value/flag on the existing row.
	// The (habit_id, log_date) unique key guarantees one row per pair.
	Upsert(ctx context.Context, log *DailyLog) error

	// ListByUserAndDate retrieves all of a user's logs for one calendar date.
	ListByUserAndDate(ctx context.Context, userID, date string) ([]*DailyLog, error)
}
