package services

import (
	"context"
	"errors"
	"time"

	"github.com/kindledapp/kindled-engine/internal/core/domain"
)

// ProgressService is the single entry point for check-ins. One LogProgress
// call performs exactly one log upsert, at most one habit streak patch, at
// most one user streak patch, one daily stat upsert and one lifetime stat
// upsert, all inside one transaction.
type ProgressService struct {
	habitRepo domain.HabitRepository
	logRepo   domain.DailyLogRepository
	userRepo  domain.UserRepository
	ledger    *XPLedger
	tx        domain.Transactor
}

func NewProgressService(habitRepo domain.HabitRepository, logRepo domain.DailyLogRepository, userRepo domain.UserRepository, ledger *XPLedger, tx domain.Transactor) *ProgressService {
	return &ProgressService{
		habitRepo: habitRepo,
		logRepo:   logRepo,
		userRepo:  userRepo,
		ledger:    ledger,
		tx:        tx,
	}
}

type LogProgressInput struct {
	UserID  string
	HabitID string
	Date    string // YYYY-MM-DD
	Value   int
}

type ProgressResult struct {
	NewDailyXP      int `json:"new_daily_xp"`
	TotalCategoryXP int `json:"total_category_xp"`
}

// LogProgress records a check-in for one habit on one date. Editing the same
// day again overwrites the raw value and reclassifies it, but streaks only
// move when the day flips from not-completed to completed; a day that was
// already completed never re-increments.
func (s *ProgressService) LogProgress(ctx context.Context, input LogProgressInput) (*ProgressResult, error) {
	date, err := domain.ParseDate(input.Date)
	if err != nil {
		return nil, err
	}
	if input.Value < 0 {
		return nil, domain.ErrInvalidLog
	}

	var result *ProgressResult

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		// The habit row lock serializes concurrent check-ins for the same
		// habit: without it two writers could both read a stale completion
		// flag and double-increment the streak.
		habit, err := s.habitRepo.GetByIDForUpdate(ctx, input.HabitID)
		if err != nil {
			return err
		}
		if habit.UserID != input.UserID {
			return domain.ErrUnauthorized
		}

		completed := habit.IsCompleted(input.Value)

		wasAlreadyCompleted := false
		log, err := s.logRepo.GetByHabitAndDate(ctx, habit.ID, input.Date)
		switch {
		case err == nil:
			wasAlreadyCompleted = log.Completed
			log.RawValue = input.Value
			log.Completed = completed
			log.UpdatedAt = time.Now().UTC()
		case errors.Is(err, domain.ErrLogNotFound):
			log = domain.NewDailyLog(habit.ID, habit.UserID, date, input.Value, completed)
		default:
			return err
		}

		if err := s.logRepo.Upsert(ctx, log); err != nil {
			return err
		}

		if completed && !wasAlreadyCompleted {
			habit.RecordCompletion(date)
			if err := s.habitRepo.UpdateStreaks(ctx, habit.ID, habit.CurrentStreak, habit.BestStreak, habit.LastCompletedDate); err != nil {
				return err
			}

			user, err := s.userRepo.GetByIDForUpdate(ctx, input.UserID)
			if err != nil {
				return err
			}
			user.RecordGlobalCompletion(date)
			if err := s.userRepo.UpdateGlobalStreak(ctx, user.ID, user.GlobalStreak, user.LastCompletedDate); err != nil {
				return err
			}
		}

		dailyXP, lifetimeXP, err := s.ledger.Recompute(ctx, input.UserID, habit.Category, date)
		if err != nil {
			return err
		}

		result = &ProgressResult{
			NewDailyXP:      dailyXP,
			TotalCategoryXP: lifetimeXP,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// TodayLogs returns the caller's logs for one calendar date.
func (s *ProgressService) TodayLogs(ctx context.Context, userID, date string) ([]*domain.DailyLog, error) {
	if _, err := domain.ParseDate(date); err != nil {
		return nil, err
	}
	return s.logRepo.ListByUserAndDate(ctx, userID, date)
}

// CurrentStreak returns the user's displayed global streak as of the given
// date. Staleness is corrected at read time only; the stored value is never
// mutated here.
func (s *ProgressService) CurrentStreak(ctx context.Context, userID, date string) (int, error) {
	asOf, err := domain.ParseDate(date)
	if err != nil {
		return 0, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}

	return user.DisplayStreak(asOf), nil
}
