package services

import (
	"context"
	"errors"
	"time"

	"github.com/kindledapp/kindled-engine/internal/core/domain"
)

const (
	DefaultWindowDays = 7
	MaxWindowDays     = 90
)

var ErrWindowTooLarge = errors.New("stats window too large")

type StatsService struct {
	statsRepo domain.StatsRepository
}

func NewStatsService(statsRepo domain.StatsRepository) *StatsService {
	return &StatsService{statsRepo: statsRepo}
}

type DayXP struct {
	Date     string `json:"date"`
	XPEarned int    `json:"xp_earned"`
}

type CategoryWindow struct {
	Category   string  `json:"category"`
	Days       []DayXP `json:"days"`
	LifetimeXP int     `json:"lifetime_xp"`
}

// DailyWindow returns the trailing window of daily XP values for one
// category, ending at endDate inclusive. Days with no computed stat read as
// zero so the caller always gets exactly `days` points, oldest first.
func (s *StatsService) DailyWindow(ctx context.Context, userID, category string, endDate time.Time, days int) (*CategoryWindow, error) {
	if !domain.ValidCategory(category) {
		return nil, domain.ErrInvalidCategory
	}
	if days <= 0 {
		days = DefaultWindowDays
	}
	if days > MaxWindowDays {
		return nil, ErrWindowTooLarge
	}

	from := domain.FormatDate(endDate.AddDate(0, 0, -(days - 1)))
	to := domain.FormatDate(endDate)

	stats, err := s.statsRepo.ListDailyCategoryStats(ctx, userID, category, from, to)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]int, len(stats))
	for _, st := range stats {
		byDate[st.StatDate] = st.XPEarned
	}

	window := &CategoryWindow{
		Category: category,
		Days:     make([]DayXP, 0, days),
	}

	for i := days - 1; i >= 0; i-- {
		key := domain.FormatDate(endDate.AddDate(0, 0, -i))
		window.Days = append(window.Days, DayXP{Date: key, XPEarned: byDate[key]})
	}

	lifetime, err := s.statsRepo.GetUserCategoryStat(ctx, userID, category)
	switch {
	case err == nil:
		window.LifetimeXP = lifetime.LifetimeXP
	case errors.Is(err, domain.ErrStatNotFound):
		window.LifetimeXP = 0
	default:
		return nil, err
	}

	return window, nil
}
