package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kindledapp/kindled-engine/internal/core/domain"
)

type PostgresStatsRepository struct {
	db *sqlx.DB
}

func NewPostgresStatsRepository(db *sqlx.DB) *PostgresStatsRepository {
	return &PostgresStatsRepository{db: db}
}

const dailyStatColumns = `
	id, user_id, category,
	to_char(stat_date, 'YYYY-MM-DD') AS stat_date,
	xp_earned, due_count, completed_count, created_at, updated_at`

func (r *PostgresStatsRepository) GetDailyCategoryStat(ctx context.Context, userID, category, date string) (*domain.DailyCategoryStat, error) {
	var stat domain.DailyCategoryStat
	query := `
		SELECT ` + dailyStatColumns + ` FROM daily_category_stats
		WHERE user_id = $1 AND category = $2 AND stat_date = $3::date`

	err := sqlx.GetContext(ctx, ext(ctx, r.db), &stat, query, userID, category, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStatNotFound
		}
		return nil, err
	}
	return &stat, nil
}

func (r *PostgresStatsRepository) UpsertDailyCategoryStat(ctx context.Context, stat *domain.DailyCategoryStat) error {
	if stat.ID == "" {
		stat.ID = uuid.NewString()
	}

	query := `
		INSERT INTO daily_category_stats (
			id, user_id, category, stat_date,
			xp_earned, due_count, completed_count, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4::date,
			$5, $6, $7, $8, $9
		)
		ON CONFLICT (user_id, category, stat_date) DO UPDATE SET
			xp_earned = EXCLUDED.xp_earned,
			due_count = EXCLUDED.due_count,
			completed_count = EXCLUDED.completed_count,
			updated_at = EXCLUDED.updated_at`

	_, err := ext(ctx, r.db).ExecContext(ctx, query,
		stat.ID, stat.UserID, stat.Category, stat.StatDate,
		stat.XPEarned, stat.DueCount, stat.CompletedCount, stat.CreatedAt, stat.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("daily stat upsert failed: %w", err)
	}
	return nil
}

// ApplyLifetimeDelta folds a daily XP delta into the lifetime counter in a
// single statement, so concurrent check-ins in the same category cannot lose
// updates.
func (r *PostgresStatsRepository) ApplyLifetimeDelta(ctx context.Context, userID, category string, delta int) (int, error) {
	query := `
		INSERT INTO user_category_stats (id, user_id, category, lifetime_xp, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (user_id, category) DO UPDATE SET
			lifetime_xp = user_category_stats.lifetime_xp + EXCLUDED.lifetime_xp,
			updated_at = NOW()
		RETURNING lifetime_xp`

	var total int
	err := ext(ctx, r.db).QueryRowxContext(ctx, query, uuid.NewString(), userID, category, delta).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("lifetime delta failed: %w", err)
	}
	return total, nil
}

func (r *PostgresStatsRepository) GetUserCategoryStat(ctx context.Context, userID, category string) (*domain.UserCategoryStat, error) {
	var stat domain.UserCategoryStat
	query := `
		SELECT id, user_id, category, lifetime_xp, created_at, updated_at
		FROM user_category_stats
		WHERE user_id = $1 AND category = $2`

	err := sqlx.GetContext(ctx, ext(ctx, r.db), &stat, query, userID, category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStatNotFound
		}
		return nil, err
	}
	return &stat, nil
}

func (r *PostgresStatsRepository) ListDailyCategoryStats(ctx context.Context, userID, category, from, to string) ([]*domain.DailyCategoryStat, error) {
	stats := []*domain.DailyCategoryStat{}

	query := `
		SELECT ` + dailyStatColumns + ` FROM daily_category_stats
		WHERE user_id = $1 AND category = $2
		  AND stat_date >= $3::date AND stat_date <= $4::date
		ORDER BY stat_date ASC`

	err := sqlx.SelectContext(ctx, ext(ctx, r.db), &stats, query, userID, category, from, to)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
