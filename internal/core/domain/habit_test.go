package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindledapp/kindled-engine/internal/core/domain"
)

func dailyRec() domain.Recurrence {
	return domain.Recurrence{Kind: domain.RecurrenceDaily}
}

func TestNewHabit(t *testing.T) {
	t.Run("Success: Creates valid habit with zeroed streaks", func(t *testing.T) {
		h, err := domain.NewHabit("u1", "Drink Water", domain.CategoryBody, domain.TrackingBinary, 0, dailyRec())

		require.NoError(t, err)
		require.NotNil(t, h)
		assert.NotEmpty(t, h.ID)
		assert.Equal(t, "u1", h.UserID)
		assert.Equal(t, "Drink Water", h.Title)
		assert.Equal(t, domain.CategoryBody, h.Category)

		assert.Equal(t, 0, h.CurrentStreak)
		assert.Equal(t, 0, h.BestStreak)
		assert.Empty(t, h.LastCompletedDate)
		assert.Nil(t, h.ArchivedAt)

		assert.WithinDuration(t, time.Now().UTC(), h.CreatedAt, 2*time.Second)
	})

	t.Run("Success: Binary mode forces target to 1", func(t *testing.T) {
		h, err := domain.NewHabit("u1", "No Sugar", domain.CategoryBody, domain.TrackingBinary, 100, dailyRec())

		require.NoError(t, err)
		assert.Equal(t, 1, h.TargetValue)
	})

	t.Run("Error: Invalid UserID", func(t *testing.T) {
		_, err := domain.NewHabit("", "Title", domain.CategoryBody, domain.TrackingBinary, 1, dailyRec())
		assert.Equal(t, domain.ErrHabitInvalidUserID, err)
	})
}

func TestHabit_Validation(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		category string
		mode     string
		target   int
		rec      domain.Recurrence
		wantErr  error
	}{
		{
			name:     "Success: Duration with target minutes",
			title:    "Meditate",
			category: domain.CategorySpirit,
			mode:     domain.TrackingDuration,
			target:   10,
			rec:      dailyRec(),
		},
		{
			name:     "Success: Count on custom schedule",
			title:    "Pushups",
			category: domain.CategoryBody,
			mode:     domain.TrackingCount,
			target:   20,
			rec:      domain.Recurrence{Kind: domain.RecurrenceCustom, Weekdays: []int{1, 3, 5}},
		},
		{
			name:     "Error: Empty Title",
			title:    "   ",
			category: domain.CategoryMind,
			mode:     domain.TrackingBinary,
			rec:      dailyRec(),
			wantErr:  domain.ErrHabitTitleEmpty,
		},
		{
			name:     "Error: Title Too Long",
			title:    strings.Repeat("a", 101),
			category: domain.CategoryMind,
			mode:     domain.TrackingBinary,
			rec:      dailyRec(),
			wantErr:  domain.ErrHabitTitleTooLong,
		},
		{
			name:     "Error: Unknown Category",
			title:    "Title",
			category: "finance",
			mode:     domain.TrackingBinary,
			rec:      dailyRec(),
			wantErr:  domain.ErrInvalidCategory,
		},
		{
			name:     "Error: Unknown Tracking Mode",
			title:    "Title",
			category: domain.CategoryWork,
			mode:     "magic",
			rec:      dailyRec(),
			wantErr:  domain.ErrInvalidTrackingMode,
		},
		{
			name:     "Error: Negative Target",
			title:    "Title",
			category: domain.CategoryWork,
			mode:     domain.TrackingCount,
			target:   -5,
			rec:      dailyRec(),
			wantErr:  domain.ErrInvalidTarget,
		},
		{
			name:     "Error: Invalid Recurrence bubbles up",
			title:    "Title",
			category: domain.CategoryWork,
			mode:     domain.TrackingBinary,
			rec:      domain.Recurrence{Kind: domain.RecurrenceCustom, Weekdays: []int{9}},
			wantErr:  domain.ErrInvalidWeekdays,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewHabit("u1", tt.title, tt.category, tt.mode, tt.target, tt.rec)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
			} else {
				assert.Nil(t, err)
			}
		})
	}
}

func TestHabit_Lifecycle(t *testing.T) {
	t.Run("Hygiene: Weekdays are sorted and deduped", func(t *testing.T) {
		rec := domain.Recurrence{Kind: domain.RecurrenceCustom, Weekdays: []int{5, 1, 1, 3}}
		h, err := domain.NewHabit("u1", "Gym", domain.CategoryBody, domain.TrackingBinary, 1, rec)

		require.NoError(t, err)
		assert.Equal(t, []int{1, 3, 5}, h.Recurrence.Weekdays)
	})

	t.Run("Archive: blocks updates until restored", func(t *testing.T) {
		h, _ := domain.NewHabit("u1", "Read", domain.CategoryMind, domain.TrackingDuration, 30, dailyRec())

		h.Archive()
		require.NotNil(t, h.ArchivedAt)
		assert.False(t, h.Active())

		err := h.Update("Read More", domain.CategoryMind, domain.TrackingDuration, 45, dailyRec())
		assert.Equal(t, domain.ErrHabitArchived, err)

		h.Restore()
		assert.Nil(t, h.ArchivedAt)
		assert.True(t, h.Active())

		err = h.Update("Read More", domain.CategoryMind, domain.TrackingDuration, 45, dailyRec())
		assert.Nil(t, err)
		assert.Equal(t, "Read More", h.Title)
		assert.Equal(t, 45, h.TargetValue)
	})

	t.Run("Update: preserves streak fields", func(t *testing.T) {
		h, _ := domain.NewHabit("u1", "Run", domain.CategoryBody, domain.TrackingBinary, 1, dailyRec())
		h.CurrentStreak = 4
		h.BestStreak = 9

		err := h.Update("Run Far", domain.CategoryBody, domain.TrackingBinary, 1, dailyRec())

		require.NoError(t, err)
		assert.Equal(t, 4, h.CurrentStreak)
		assert.Equal(t, 9, h.BestStreak)
	})
}

func TestHabit_IsCompleted(t *testing.T) {
	tests := []struct {
		name   string
		mode   string
		target int
		raw    int
		want   bool
	}{
		{name: "Binary: any positive value completes", mode: domain.TrackingBinary, target: 1, raw: 1, want: true},
		{name: "Binary: zero does not complete", mode: domain.TrackingBinary, target: 1, raw: 0, want: false},
		{name: "Duration: target is minutes, raw is seconds", mode: domain.TrackingDuration, target: 10, raw: 600, want: true},
		{name: "Duration: one second short", mode: domain.TrackingDuration, target: 10, raw: 599, want: false},
		{name: "Duration: overshoot completes", mode: domain.TrackingDuration, target: 10, raw: 1200, want: true},
		{name: "Count: exact target completes", mode: domain.TrackingCount, target: 8, raw: 8, want: true},
		{name: "Count: under target does not", mode: domain.TrackingCount, target: 8, raw: 7, want: false},
		{name: "Count: zero target completes on zero", mode: domain.TrackingCount, target: 0, raw: 0, want: true},
		{name: "Duration: zero target completes on zero", mode: domain.TrackingDuration, target: 0, raw: 0, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &domain.Habit{TrackingMode: tt.mode, TargetValue: tt.target}
			assert.Equal(t, tt.want, h.IsCompleted(tt.raw))
		})
	}
}

func TestHabit_RecordCompletion(t *testing.T) {
	t.Run("Success: first completion starts streak at 1", func(t *testing.T) {
		h, _ := domain.NewHabit("u1", "Run", domain.CategoryBody, domain.TrackingBinary, 1, dailyRec())

		h.RecordCompletion(day(2))

		assert.Equal(t, 1, h.CurrentStreak)
		assert.Equal(t, 1, h.BestStreak)
		assert.Equal(t, "2025-06-02", h.LastCompletedDate)
	})

	t.Run("Success: consecutive due days increment", func(t *testing.T) {
		h, _ := domain.NewHabit("u1", "Run", domain.CategoryBody, domain.TrackingBinary, 1, dailyRec())

		h.RecordCompletion(day(2))
		h.RecordCompletion(day(3))
		h.RecordCompletion(day(4))

		assert.Equal(t, 3, h.CurrentStreak)
		assert.Equal(t, 3, h.BestStreak)
	})

	t.Run("Success: same day twice is a no-op", func(t *testing.T) {
		h, _ := domain.NewHabit("u1", "Run", domain.CategoryBody, domain.TrackingBinary, 1, dailyRec())

		h.RecordCompletion(day(2))
		h.RecordCompletion(day(2))

		assert.Equal(t, 1, h.CurrentStreak)
	})

	t.Run("Success: gap resets current but keeps best", func(t *testing.T) {
		h, _ := domain.NewHabit("u1", "Run", domain.CategoryBody, domain.TrackingBinary, 1, dailyRec())

		h.RecordCompletion(day(2))
		h.RecordCompletion(day(3))
		h.RecordCompletion(day(4))

		// skip June 5
		h.RecordCompletion(day(6))

		assert.Equal(t, 1, h.CurrentStreak)
		assert.Equal(t, 3, h.BestStreak)
	})

	t.Run("Schedule-aware: Mon/Wed habit treats Monday as Wednesday's previous day", func(t *testing.T) {
		rec := domain.Recurrence{Kind: domain.RecurrenceCustom, Weekdays: []int{1, 3}}
		h, _ := domain.NewHabit("u1", "Gym", domain.CategoryBody, domain.TrackingBinary, 1, rec)

		h.RecordCompletion(day(2)) // Monday
		h.RecordCompletion(day(4)) // Wednesday

		assert.Equal(t, 2, h.CurrentStreak)
	})

	t.Run("Schedule-aware: missed due day in between resets", func(t *testing.T) {
		rec := domain.Recurrence{Kind: domain.RecurrenceCustom, Weekdays: []int{1, 3}}
		h, _ := domain.NewHabit("u1", "Gym", domain.CategoryBody, domain.TrackingBinary, 1, rec)

		h.RecordCompletion(day(2)) // Monday, then skip Wednesday
		h.RecordCompletion(day(9)) // next Monday

		assert.Equal(t, 1, h.CurrentStreak)
		assert.Equal(t, 1, h.BestStreak)
	})
}
