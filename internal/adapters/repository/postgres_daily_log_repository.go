package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/kindledapp/kindled-engine/internal/core/domain"
)

type PostgresDailyLogRepository struct {
	db *sqlx.DB
}

func NewPostgresDailyLogRepository(db *sqlx.DB) *PostgresDailyLogRepository {
	return &PostgresDailyLogRepository{db: db}
}

const logColumns = `
	id, habit_id, user_id,
	to_char(log_date, 'YYYY-MM-DD') AS log_date,
	raw_value, completed, created_at, updated_at`

func (r *PostgresDailyLogRepository) GetByHabitAndDate(ctx context.Context, habitID, date string) (*domain.DailyLog, error) {
	var log domain.DailyLog
	query := `SELECT ` + logColumns + ` FROM daily_logs WHERE habit_id = $1 AND log_date = $2::date`

	err := sqlx.GetContext(ctx, ext(ctx, r.db), &log, query, habitID, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrLogNotFound
		}
		return nil, err
	}
	return &log, nil
}

// Upsert relies on the UNIQUE(habit_id, log_date) index: a conflicting insert
// overwrites value and flag instead of creating a second row for the day.
func (r *PostgresDailyLogRepository) Upsert(ctx context.Context, log *domain.DailyLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}

	query := `
		INSERT INTO daily_logs (
			id, habit_id, user_id, log_date,
			raw_value, completed, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4::date,
			$5, $6, $7, $8
		)
		ON CONFLICT (habit_id, log_date) DO UPDATE SET
			raw_value = EXCLUDED.raw_value,
			completed = EXCLUDED.completed,
			updated_at = EXCLUDED.updated_at`

	_, err := ext(ctx, r.db).ExecContext(ctx, query,
		log.ID, log.HabitID, log.UserID, log.LogDate,
		log.RawValue, log.Completed, log.CreatedAt, log.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return domain.ErrHabitNotFound
		}
		return fmt.Errorf("log upsert failed: %w", err)
	}
	return nil
}

func (r *PostgresDailyLogRepository) ListByUserAndDate(ctx context.Context, userID, date string) ([]*domain.DailyLog, error) {
	logs := []*domain.DailyLog{}

	query := `
		SELECT ` + logColumns + ` FROM daily_logs
		WHERE user_id = $1 AND log_date = $2::date
		ORDER BY created_at ASC`

	err := sqlx.SelectContext(ctx, ext(ctx, r.db), &logs, query, userID, date)
	if err != nil {
		return nil, err
	}
	return logs, nil
}
