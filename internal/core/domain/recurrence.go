package domain

import (
	"errors"
	"sort"
	"time"
)

var (
	ErrInvalidRecurrenceKind = errors.New("invalid recurrence kind")
	ErrInvalidWeekdays       = errors.New("invalid weekdays (must be 0-6)")
	ErrInvalidTimesPerWeek   = errors.New("times per week must be at least 1")
)

const (
	RecurrenceDaily    = "daily"
	RecurrenceWeekdays = "weekdays"
	RecurrenceWeekends = "weekends"
	RecurrenceCustom   = "custom"
	RecurrenceXPerWeek = "x_per_week"
)

// previousDueLookback bounds the backward scan in PreviousDueDate. Schedules
// sparser than one due day in 14 are treated as broken streaks; the bound
// guarantees termination and constant cost per check-in.
const previousDueLookback = 14

// Recurrence describes when a habit is due. Kind selects the variant;
// Weekdays is only meaningful for RecurrenceCustom (0=Sunday..6=Saturday)
// and TimesPerWeek only for RecurrenceXPerWeek.
type Recurrence struct {
	Kind         string `json:"kind"`
	Weekdays     []int  `json:"weekdays,omitempty"`
	TimesPerWeek int    `json:"times_per_week,omitempty"`
}

func normalizeWeekdays(days []int) []int {
	if len(days) == 0 {
		return nil
	}

	uniqueMap := make(map[int]bool)
	var uniqueDays []int
	for _, d := range days {
		if !uniqueMap[d] {
			uniqueMap[d] = true
			uniqueDays = append(uniqueDays, d)
		}
	}

	sort.Ints(uniqueDays)
	return uniqueDays
}

func (r Recurrence) Validate() error {
	switch r.Kind {
	case RecurrenceDaily, RecurrenceWeekdays, RecurrenceWeekends:
		return nil
	case RecurrenceCustom:
		for _, day := range r.Weekdays {
			if day < 0 || day > 6 {
				return ErrInvalidWeekdays
			}
		}
		return nil
	case RecurrenceXPerWeek:
		if r.TimesPerWeek < 1 {
			return ErrInvalidTimesPerWeek
		}
		return nil
	default:
		return ErrInvalidRecurrenceKind
	}
}

// IsDue reports whether the habit requires action on the given calendar date.
// x_per_week habits are due every day: the weekly quota is informational and
// does not gate daily availability.
func (r Recurrence) IsDue(date time.Time) bool {
	weekday := int(date.UTC().Weekday())

	switch r.Kind {
	case RecurrenceDaily, RecurrenceXPerWeek:
		return true
	case RecurrenceWeekdays:
		return weekday >= 1 && weekday <= 5
	case RecurrenceWeekends:
		return weekday == 0 || weekday == 6
	case RecurrenceCustom:
		for _, d := range r.Weekdays {
			if d == weekday {
				return true
			}
		}
		return false
	}

	return false
}

// PreviousDueDate returns the most recent due date strictly before asOf.
// Daily and x_per_week rules answer literal yesterday without scanning. All
// other rules scan backward at most previousDueLookback days; if no due day
// falls in that window (e.g. a custom rule with an empty day set) the second
// return value is false.
func (r Recurrence) PreviousDueDate(asOf time.Time) (time.Time, bool) {
	asOf = asOf.UTC()

	if r.Kind == RecurrenceDaily || r.Kind == RecurrenceXPerWeek {
		return asOf.AddDate(0, 0, -1), true
	}

	for i := 1; i <= previousDueLookback; i++ {
		candidate := asOf.AddDate(0, 0, -i)
		if r.IsDue(candidate) {
			return candidate, true
		}
	}

	return time.Time{}, false
}
