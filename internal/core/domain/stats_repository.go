package domain

import "context"

type StatsRepository interface {
	// GetDailyCategoryStat retrieves the (user, category, date) row, or
	// ErrStatNotFound when the day has not been computed yet.
	GetDailyCategoryStat(ctx context.Context, userID, category, date string) (*DailyCategoryStat, error)

	// UpsertDailyCategoryStat writes the recomputed row for the day.
	UpsertDailyCategoryStat(ctx context.Context, stat *DailyCategoryStat) error

	// ApplyLifetimeDelta adjusts the lifetime XP counter by delta and returns
	// the new total, creating the row seeded with delta if it does not exist.
	// Only the ledger calls this, and only with the delta it just derived.
	ApplyLifetimeDelta(ctx context.Context, userID, category string, delta int) (int, error)

	// GetUserCategoryStat retrieves the lifetime row for a (user, category).
	GetUserCategoryStat(ctx context.Context, userID, category string) (*UserCategoryStat, error)

	// ListDailyCategoryStats retrieves rows for one category in the inclusive
	// [from, to] date range, oldest first. Missing days simply have no row.
	ListDailyCategoryStats(ctx context.Context, userID, category, from, to string) ([]*DailyCategoryStat, error)
}
