package repository

import (
	"context"
	"os"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindledapp/kindled-engine/internal/adapters/cache"
	"github.com/kindledapp/kindled-engine/internal/core/domain"
)

func setupCachedRepo(t *testing.T) (*CachedHabitRepository, *InMemoryHabitRepository) {
	_ = godotenv.Load("../../../.env")

	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	rdb, err := cache.NewRedisClient(host, port, os.Getenv("REDIS_PASSWORD"), 2)
	if err != nil {
		t.Skipf("Skipping cache tests: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })

	require.NoError(t, rdb.FlushDB(context.Background()).Err())

	inner := NewInMemoryHabitRepository()
	return NewCachedHabitRepository(inner, rdb), inner
}

func TestCachedHabitRepository(t *testing.T) {
	ctx := context.Background()

	newHabit := func(t *testing.T, userID, title string) *domain.Habit {
		t.Helper()
		h, err := domain.NewHabit(userID, title, domain.CategoryBody, domain.TrackingBinary, 1,
			domain.Recurrence{Kind: domain.RecurrenceDaily})
		require.NoError(t, err)
		return h
	}

	t.Run("Read-through: second list is served from cache", func(t *testing.T) {
		repo, inner := setupCachedRepo(t)

		habit := newHabit(t, "u1", "Run")
		require.NoError(t, repo.Create(ctx, habit))

		first, err := repo.ListByUserID(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, first, 1)

		// Mutate the store behind the cache's back; a cached read won't see it.
		require.NoError(t, inner.Delete(ctx, habit.ID))

		second, err := repo.ListByUserID(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, second, 1, "stale read proves the cache was hit")
	})

	t.Run("Invalidation: writes drop the cached list", func(t *testing.T) {
		repo, _ := setupCachedRepo(t)

		habit := newHabit(t, "u1", "Run")
		require.NoError(t, repo.Create(ctx, habit))

		_, err := repo.ListByUserID(ctx, "u1")
		require.NoError(t, err)

		second := newHabit(t, "u1", "Stretch")
		require.NoError(t, repo.Create(ctx, second))

		list, err := repo.ListByUserID(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("Invalidation: streak updates refresh the next read", func(t *testing.T) {
		repo, _ := setupCachedRepo(t)

		habit := newHabit(t, "u1", "Run")
		require.NoError(t, repo.Create(ctx, habit))

		_, err := repo.ListByUserID(ctx, "u1")
		require.NoError(t, err)

		require.NoError(t, repo.UpdateStreaks(ctx, habit.ID, 4, 4, "2025-06-02"))

		list, err := repo.ListByUserID(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, 4, list[0].CurrentStreak)
	})
}
