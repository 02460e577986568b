package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindledapp/kindled-engine/internal/core/domain"
)

func TestNewUser(t *testing.T) {
	t.Run("Success: normalizes email to lowercase", func(t *testing.T) {
		u, err := domain.NewUser("u1", "  Test@Example.COM ")

		require.NoError(t, err)
		assert.Equal(t, "test@example.com", u.Email)
		assert.Equal(t, 0, u.GlobalStreak)
		assert.Empty(t, u.LastCompletedDate)
	})

	t.Run("Error: invalid email", func(t *testing.T) {
		_, err := domain.NewUser("u1", "not-an-email")
		assert.Equal(t, domain.ErrInvalidEmail, err)
	})
}

func TestUser_Password(t *testing.T) {
	t.Run("Success: hashes and verifies", func(t *testing.T) {
		u, _ := domain.NewUser("u1", "test@example.com")

		require.NoError(t, u.SetPassword("supersecret"))
		assert.NotEqual(t, "supersecret", u.PasswordHash)
		assert.NoError(t, u.CheckPassword("supersecret"))
		assert.Error(t, u.CheckPassword("wrongpassword"))
	})

	t.Run("Error: too short", func(t *testing.T) {
		u, _ := domain.NewUser("u1", "test@example.com")
		assert.Equal(t, domain.ErrPasswordTooShort, u.SetPassword("short"))
	})
}

func TestUser_RecordGlobalCompletion(t *testing.T) {
	t.Run("Success: first completion starts at 1", func(t *testing.T) {
		u, _ := domain.NewUser("u1", "test@example.com")

		u.RecordGlobalCompletion(day(2))

		assert.Equal(t, 1, u.GlobalStreak)
		assert.Equal(t, "2025-06-02", u.LastCompletedDate)
	})

	t.Run("Success: consecutive calendar days increment", func(t *testing.T) {
		u, _ := domain.NewUser("u1", "test@example.com")

		u.RecordGlobalCompletion(day(2))
		u.RecordGlobalCompletion(day(3))

		assert.Equal(t, 2, u.GlobalStreak)
	})

	t.Run("Success: same day twice is a no-op", func(t *testing.T) {
		u, _ := domain.NewUser("u1", "test@example.com")

		u.RecordGlobalCompletion(day(2))
		u.RecordGlobalCompletion(day(2))

		assert.Equal(t, 1, u.GlobalStreak)
	})

	t.Run("Success: gap resets to 1", func(t *testing.T) {
		u, _ := domain.NewUser("u1", "test@example.com")

		u.RecordGlobalCompletion(day(2))
		u.RecordGlobalCompletion(day(3))
		u.RecordGlobalCompletion(day(6))

		assert.Equal(t, 1, u.GlobalStreak)
	})
}

func TestUser_DisplayStreak(t *testing.T) {
	t.Run("Completed today: shows stored streak", func(t *testing.T) {
		u := &domain.User{GlobalStreak: 5, LastCompletedDate: "2025-06-04"}
		assert.Equal(t, 5, u.DisplayStreak(day(4)))
	})

	t.Run("Completed yesterday: still shows stored streak", func(t *testing.T) {
		u := &domain.User{GlobalStreak: 5, LastCompletedDate: "2025-06-03"}
		assert.Equal(t, 5, u.DisplayStreak(day(4)))
	})

	t.Run("Stale: older completion reads as zero without mutating storage", func(t *testing.T) {
		u := &domain.User{GlobalStreak: 5, LastCompletedDate: "2025-06-01"}

		assert.Equal(t, 0, u.DisplayStreak(day(4)))
		assert.Equal(t, 5, u.GlobalStreak, "stored value must stay stale until the next completion")
	})

	t.Run("Never completed: zero", func(t *testing.T) {
		u := &domain.User{}
		assert.Equal(t, 0, u.DisplayStreak(day(4)))
	})
}
