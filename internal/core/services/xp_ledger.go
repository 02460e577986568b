package services

import (
	"context"
	"errors"
	"time"

	"github.com/kindledapp/kindled-engine/internal/core/domain"
)

// XPLedger owns the category XP aggregates. Both the daily row and the
// lifetime counter are materialized views over the daily logs: every write
// path recomputes the day from scratch and applies the delta, so the two can
// never drift apart.
type XPLedger struct {
	habitRepo domain.HabitRepository
	logRepo   domain.DailyLogRepository
	statsRepo domain.StatsRepository
}

func NewXPLedger(habitRepo domain.HabitRepository, logRepo domain.DailyLogRepository, statsRepo domain.StatsRepository) *XPLedger {
	return &XPLedger{
		habitRepo: habitRepo,
		logRepo:   logRepo,
		statsRepo: statsRepo,
	}
}

// Recompute rebuilds the (user, category, date) stat from the logs of that
// day's due habits and folds the XP delta into the lifetime counter. It
// returns the day's XP and the updated lifetime total. Must run inside the
// caller's transaction when invoked from a write path.
func (l *XPLedger) Recompute(ctx context.Context, userID, category string, date time.Time) (int, int, error) {
	habits, err := l.habitRepo.ListActiveByCategory(ctx, userID, category)
	if err != nil {
		return 0, 0, err
	}

	dateKey := domain.FormatDate(date)

	dueCount := 0
	completedCount := 0
	for _, h := range habits {
		if !h.Recurrence.IsDue(date) {
			continue
		}
		dueCount++

		log, err := l.logRepo.GetByHabitAndDate(ctx, h.ID, dateKey)
		if err != nil {
			if errors.Is(err, domain.ErrLogNotFound) {
				continue
			}
			return 0, 0, err
		}
		if log.Completed {
			completedCount++
		}
	}

	dailyXP := domain.DailyXPFor(completedCount, dueCount)

	previousXP := 0
	stat, err := l.statsRepo.GetDailyCategoryStat(ctx, userID, category, dateKey)
	switch {
	case err == nil:
		previousXP = stat.XPEarned
		stat.XPEarned = dailyXP
		stat.DueCount = dueCount
		stat.CompletedCount = completedCount
		stat.UpdatedAt = time.Now().UTC()
	case errors.Is(err, domain.ErrStatNotFound):
		now := time.Now().UTC()
		stat = &domain.DailyCategoryStat{
			UserID:         userID,
			Category:       category,
			StatDate:       dateKey,
			XPEarned:       dailyXP,
			DueCount:       dueCount,
			CompletedCount: completedCount,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
	default:
		return 0, 0, err
	}

	if err := l.statsRepo.UpsertDailyCategoryStat(ctx, stat); err != nil {
		return 0, 0, err
	}

	delta := dailyXP - previousXP
	lifetimeXP, err := l.statsRepo.ApplyLifetimeDelta(ctx, userID, category, delta)
	if err != nil {
		return 0, 0, err
	}

	return dailyXP, lifetimeXP, nil
}
