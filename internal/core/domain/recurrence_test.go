package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindledapp/kindled-engine/internal/core/domain"
)

// 2025-06-01 is a Sunday, so the first week of June 2025 covers every weekday
// in order: Sun 1, Mon 2, Tue 3, Wed 4, Thu 5, Fri 6, Sat 7.
func day(d int) time.Time {
	return time.Date(2025, time.June, d, 0, 0, 0, 0, time.UTC)
}

func TestRecurrence_Validate(t *testing.T) {
	tests := []struct {
		name    string
		rec     domain.Recurrence
		wantErr error
	}{
		{name: "Success: Daily", rec: domain.Recurrence{Kind: domain.RecurrenceDaily}},
		{name: "Success: Weekdays", rec: domain.Recurrence{Kind: domain.RecurrenceWeekdays}},
		{name: "Success: Weekends", rec: domain.Recurrence{Kind: domain.RecurrenceWeekends}},
		{name: "Success: Custom with boundary days (Sun 0 & Sat 6)", rec: domain.Recurrence{Kind: domain.RecurrenceCustom, Weekdays: []int{0, 6}}},
		{name: "Success: Custom with empty day set", rec: domain.Recurrence{Kind: domain.RecurrenceCustom}},
		{name: "Success: X per week", rec: domain.Recurrence{Kind: domain.RecurrenceXPerWeek, TimesPerWeek: 3}},
		{name: "Error: Unknown kind", rec: domain.Recurrence{Kind: "lunar"}, wantErr: domain.ErrInvalidRecurrenceKind},
		{name: "Error: Empty kind", rec: domain.Recurrence{}, wantErr: domain.ErrInvalidRecurrenceKind},
		{name: "Error: Weekday 7 out of range", rec: domain.Recurrence{Kind: domain.RecurrenceCustom, Weekdays: []int{7}}, wantErr: domain.ErrInvalidWeekdays},
		{name: "Error: Negative weekday", rec: domain.Recurrence{Kind: domain.RecurrenceCustom, Weekdays: []int{-1}}, wantErr: domain.ErrInvalidWeekdays},
		{name: "Error: X per week without quota", rec: domain.Recurrence{Kind: domain.RecurrenceXPerWeek}, wantErr: domain.ErrInvalidTimesPerWeek},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rec.Validate()
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
			} else {
				assert.Nil(t, err)
			}
		})
	}
}

func TestRecurrence_IsDue(t *testing.T) {
	daily := domain.Recurrence{Kind: domain.RecurrenceDaily}
	weekdays := domain.Recurrence{Kind: domain.RecurrenceWeekdays}
	weekends := domain.Recurrence{Kind: domain.RecurrenceWeekends}
	monWed := domain.Recurrence{Kind: domain.RecurrenceCustom, Weekdays: []int{1, 3}}
	perWeek := domain.Recurrence{Kind: domain.RecurrenceXPerWeek, TimesPerWeek: 3}

	t.Run("Daily: due every day of the week", func(t *testing.T) {
		for d := 1; d <= 7; d++ {
			assert.True(t, daily.IsDue(day(d)), "day %d", d)
		}
	})

	t.Run("Weekdays: Mon-Fri only", func(t *testing.T) {
		assert.False(t, weekdays.IsDue(day(1)), "Sunday")
		for d := 2; d <= 6; d++ {
			assert.True(t, weekdays.IsDue(day(d)), "day %d", d)
		}
		assert.False(t, weekdays.IsDue(day(7)), "Saturday")
	})

	t.Run("Weekends: Sat and Sun only", func(t *testing.T) {
		assert.True(t, weekends.IsDue(day(1)), "Sunday")
		assert.True(t, weekends.IsDue(day(7)), "Saturday")
		for d := 2; d <= 6; d++ {
			assert.False(t, weekends.IsDue(day(d)), "day %d", d)
		}
	})

	t.Run("Custom: membership only", func(t *testing.T) {
		assert.True(t, monWed.IsDue(day(2)), "Monday")
		assert.True(t, monWed.IsDue(day(4)), "Wednesday")
		assert.False(t, monWed.IsDue(day(3)), "Tuesday")
		assert.False(t, monWed.IsDue(day(1)), "Sunday")
	})

	t.Run("Custom: empty day set is never due", func(t *testing.T) {
		empty := domain.Recurrence{Kind: domain.RecurrenceCustom}
		for d := 1; d <= 7; d++ {
			assert.False(t, empty.IsDue(day(d)), "day %d", d)
		}
	})

	t.Run("XPerWeek: due every day regardless of quota", func(t *testing.T) {
		for d := 1; d <= 7; d++ {
			assert.True(t, perWeek.IsDue(day(d)), "day %d", d)
		}
	})
}

func TestRecurrence_PreviousDueDate(t *testing.T) {
	t.Run("Daily: literal yesterday", func(t *testing.T) {
		daily := domain.Recurrence{Kind: domain.RecurrenceDaily}

		prev, ok := daily.PreviousDueDate(day(4))

		require.True(t, ok)
		assert.Equal(t, day(3), prev)
	})

	t.Run("XPerWeek: literal yesterday, no scan", func(t *testing.T) {
		perWeek := domain.Recurrence{Kind: domain.RecurrenceXPerWeek, TimesPerWeek: 2}

		prev, ok := perWeek.PreviousDueDate(day(1))

		require.True(t, ok)
		assert.Equal(t, time.Date(2025, time.May, 31, 0, 0, 0, 0, time.UTC), prev)
	})

	t.Run("Weekdays: Monday looks back to Friday", func(t *testing.T) {
		weekdays := domain.Recurrence{Kind: domain.RecurrenceWeekdays}

		prev, ok := weekdays.PreviousDueDate(day(9)) // Monday June 9

		require.True(t, ok)
		assert.Equal(t, day(6), prev) // Friday June 6
	})

	t.Run("Custom: Wednesday looks back to Monday", func(t *testing.T) {
		monWed := domain.Recurrence{Kind: domain.RecurrenceCustom, Weekdays: []int{1, 3}}

		prev, ok := monWed.PreviousDueDate(day(4))

		require.True(t, ok)
		assert.Equal(t, day(2), prev)
	})

	t.Run("Custom: single day schedule finds last week's occurrence", func(t *testing.T) {
		mondaysOnly := domain.Recurrence{Kind: domain.RecurrenceCustom, Weekdays: []int{1}}

		prev, ok := mondaysOnly.PreviousDueDate(day(9)) // Monday June 9

		require.True(t, ok)
		assert.Equal(t, day(2), prev) // Monday June 2
	})

	t.Run("Custom: empty day set has no previous due date", func(t *testing.T) {
		empty := domain.Recurrence{Kind: domain.RecurrenceCustom}

		_, ok := empty.PreviousDueDate(day(4))

		assert.False(t, ok)
	})
}
