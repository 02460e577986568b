package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kindledapp/kindled-engine/internal/core/domain"
)

type PostgresHabitRepository struct {
	db *sqlx.DB
}

func NewPostgresHabitRepository(db *sqlx.DB) *PostgresHabitRepository {
	return &PostgresHabitRepository{db: db}
}

const habitColumns = `
	id, user_id, title, category, tracking_mode, target_value,
	recurrence_kind, weekdays, times_per_week,
	current_streak, best_streak,
	COALESCE(to_char(last_completed_date, 'YYYY-MM-DD'), '') AS last_completed_date,
	created_at, updated_at, archived_at`

type scannable interface {
	Scan(dest ...interface{}) error
}

func (r *PostgresHabitRepository) scanRow(row scannable) (*domain.Habit, error) {
	var h domain.Habit
	var weekdaysJSON []byte

	err := row.Scan(
		&h.ID, &h.UserID, &h.Title, &h.Category, &h.TrackingMode, &h.TargetValue,
		&h.Recurrence.Kind, &weekdaysJSON, &h.Recurrence.TimesPerWeek,
		&h.CurrentStreak, &h.BestStreak, &h.LastCompletedDate,
		&h.CreatedAt, &h.UpdatedAt, &h.ArchivedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(weekdaysJSON) > 0 {
		if err := json.Unmarshal(weekdaysJSON, &h.Recurrence.Weekdays); err != nil {
			return nil, fmt.Errorf("failed to unmarshal weekdays: %w", err)
		}
	}

	return &h, nil
}

func (r *PostgresHabitRepository) Create(ctx context.Context, h *domain.Habit) error {
	weekdaysJSON, err := json.Marshal(h.Recurrence.Weekdays)
	if err != nil {
		return fmt.Errorf("failed to marshal weekdays: %w", err)
	}

	query := `
        INSERT INTO habits (
            id, user_id, title, category, tracking_mode, target_value,
            recurrence_kind, weekdays, times_per_week,
            current_streak, best_streak, last_completed_date,
            created_at, updated_at, archived_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6,
            $7, $8, $9,
            0, 0, NULL,
            $10, $11, NULL
        )`

	_, err = ext(ctx, r.db).ExecContext(ctx, query,
		h.ID, h.UserID, h.Title, h.Category, h.TrackingMode, h.TargetValue,
		h.Recurrence.Kind, weekdaysJSON, h.Recurrence.TimesPerWeek,
		h.CreatedAt, h.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert habit: %w", err)
	}

	return nil
}

func (r *PostgresHabitRepository) getByID(ctx context.Context, id string, forUpdate bool) (*domain.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	row := ext(ctx, r.db).QueryRowxContext(ctx, query, id)

	h, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHabitNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	return h, nil
}

func (r *PostgresHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	return r.getByID(ctx, id, false)
}

func (r *PostgresHabitRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Habit, error) {
	return r.getByID(ctx, id, true)
}

func (r *PostgresHabitRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Habit, error) {
	rows, err := ext(ctx, r.db).QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var habits []*domain.Habit

	for rows.Next() {
		h, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}
		habits = append(habits, h)
	}

	return habits, rows.Err()
}

func (r *PostgresHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	query := `
        SELECT ` + habitColumns + ` FROM habits
        WHERE user_id = $1
        ORDER BY created_at DESC`

	return r.list(ctx, query, userID)
}

func (r *PostgresHabitRepository) ListActiveByCategory(ctx context.Context, userID, category string) ([]*domain.Habit, error) {
	query := `
        SELECT ` + habitColumns + ` FROM habits
        WHERE user_id = $1 AND category = $2 AND archived_at IS NULL
        ORDER BY created_at ASC`

	return r.list(ctx, query, userID, category)
}

func (r *PostgresHabitRepository) Update(ctx context.Context, h *domain.Habit) error {
	weekdaysJSON, err := json.Marshal(h.Recurrence.Weekdays)
	if err != nil {
		return err
	}

	query := `
        UPDATE habits SET
            title=$1, category=$2, tracking_mode=$3, target_value=$4,
            recurrence_kind=$5, weekdays=$6, times_per_week=$7,
            archived_at=$8, updated_at=NOW()
        WHERE id=$9`

	res, err := ext(ctx, r.db).ExecContext(ctx, query,
		h.Title, h.Category, h.TrackingMode, h.TargetValue,
		h.Recurrence.Kind, weekdaysJSON, h.Recurrence.TimesPerWeek,
		h.ArchivedAt, h.ID,
	)
	if err != nil {
		return fmt.Errorf("update query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrHabitNotFound
	}

	return nil
}

func (r *PostgresHabitRepository) UpdateStreaks(ctx context.Context, id string, current, best int, lastCompleted string) error {
	query := `
        UPDATE habits SET
            current_streak=$1, best_streak=$2,
            last_completed_date=NULLIF($3, '')::date,
            updated_at=NOW()
        WHERE id=$4`

	res, err := ext(ctx, r.db).ExecContext(ctx, query, current, best, lastCompleted, id)
	if err != nil {
		return fmt.Errorf("streak update failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrHabitNotFound
	}

	return nil
}

func (r *PostgresHabitRepository) Delete(ctx context.Context, id string) error {
	res, err := ext(ctx, r.db).ExecContext(ctx, `DELETE FROM habits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrHabitNotFound
	}

	return nil
}
