package domain

import (
	"errors"
	"math"
	"time"
)

var ErrStatNotFound = errors.New("category stat not found")

// DailyCategoryStat is a materialized view: one row per (user, category, date)
// holding that day's XP and the due/completed counts it was derived from.
// It is recomputed in place whenever any log in the category/date changes,
// never incremented ad hoc.
type DailyCategoryStat struct {
	ID             string `json:"id" db:"id"`
	UserID         string `json:"user_id" db:"user_id"`
	Category       string `json:"category" db:"category"`
	StatDate       string `json:"date" db:"stat_date"` // YYYY-MM-DD
	XPEarned       int    `json:"xp_earned" db:"xp_earned"`
	DueCount       int    `json:"due_count" db:"due_count"`
	CompletedCount int    `json:"completed_count" db:"completed_count"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// UserCategoryStat accumulates lifetime XP per (user, category). Mutated only
// through the ledger's delta application, inside the same transaction as the
// daily recompute.
type UserCategoryStat struct {
	ID         string `json:"id" db:"id"`
	UserID     string `json:"user_id" db:"user_id"`
	Category   string `json:"category" db:"category"`
	LifetimeXP int    `json:"lifetime_xp" db:"lifetime_xp"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DailyXPFor computes a category's XP for one day: the completion percentage
// of its due habits, rounded half up, always in [0,100]. No due habits means
// no XP to earn or lose.
func DailyXPFor(completed, due int) int {
	if due <= 0 {
		return 0
	}
	return int(math.Floor(float64(completed)/float64(due)*100 + 0.5))
}
