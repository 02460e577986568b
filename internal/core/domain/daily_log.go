package domain

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidLog = errors.New("invalid daily log data")

// DailyLog is the single record for one habit on one calendar date. The
// Completed flag is derived from the habit's target at write time and stored
// for fast per-day queries. At most one log exists per (habit, date): writes
// go through upsert, never a second insert.
type DailyLog struct {
	ID      string `json:"id" db:"id"`
	HabitID string `json:"habit_id" db:"habit_id"`
	UserID  string `json:"user_id" db:"user_id"` // denormalized for per-user day queries

	LogDate   string `json:"date" db:"log_date"` // YYYY-MM-DD
	RawValue  int    `json:"current_value" db:"raw_value"`
	Completed bool   `json:"is_completed" db:"completed"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func NewDailyLog(habitID, userID string, date time.Time, rawValue int, completed bool) *DailyLog {
	now := time.Now().UTC()

	return &DailyLog{
		HabitID:   habitID,
		UserID:    userID,
		LogDate:   FormatDate(date),
		RawValue:  rawValue,
		Completed: completed,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (l *DailyLog) Validate() error {
	if strings.TrimSpace(l.HabitID) == "" {
		return errors.New("habit_id is required")
	}
	if strings.TrimSpace(l.UserID) == "" {
		return errors.New("user_id is required")
	}
	if l.RawValue < 0 {
		return errors.New("raw value cannot be negative")
	}
	if _, err := ParseDate(l.LogDate); err != nil {
		return err
	}
	return nil
}
