package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrHabitTitleEmpty     = errors.New("habit title cannot be empty")
	ErrHabitTitleTooLong   = errors.New("habit title is too long (max 100 chars)")
	ErrHabitInvalidUserID  = errors.New("invalid user id")
	ErrInvalidCategory     = errors.New("invalid habit category")
	ErrInvalidTrackingMode = errors.New("invalid tracking mode (must be binary, duration, or count)")
	ErrInvalidTarget       = errors.New("target cannot be negative")
	ErrHabitArchived       = errors.New("cannot update an archived habit")
)

const (
	TrackingBinary   = "binary"
	TrackingDuration = "duration"
	TrackingCount    = "count"

	MaxTitleLen = 100
)

// Categories are the fixed life domains habits are grouped under for XP.
const (
	CategoryBody   = "body"
	CategoryMind   = "mind"
	CategoryWork   = "work"
	CategorySocial = "social"
	CategorySpirit = "spirit"
)

var Categories = []string{CategoryBody, CategoryMind, CategoryWork, CategorySocial, CategorySpirit}

func ValidCategory(key string) bool {
	for _, c := range Categories {
		if c == key {
			return true
		}
	}
	return false
}

type Habit struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Title        string     `json:"title"`
	Category     string     `json:"category"`
	TrackingMode string     `json:"tracking_mode"`
	TargetValue  int        `json:"target_value"` // minutes for duration mode, repetitions for count mode
	Recurrence   Recurrence `json:"recurrence"`

	CurrentStreak     int    `json:"current_streak"`
	BestStreak        int    `json:"best_streak"`
	LastCompletedDate string `json:"last_completed_date,omitempty"` // YYYY-MM-DD, empty when never completed

	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
}

func validateHabit(title, category, mode string, target int, rec Recurrence) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return ErrHabitTitleEmpty
	}
	if len(trimmed) > MaxTitleLen {
		return ErrHabitTitleTooLong
	}

	if !ValidCategory(category) {
		return ErrInvalidCategory
	}

	switch mode {
	case TrackingBinary, TrackingDuration, TrackingCount:
	default:
		return ErrInvalidTrackingMode
	}

	if target < 0 {
		return ErrInvalidTarget
	}

	return rec.Validate()
}

func NewHabit(userID, title, category, mode string, target int, rec Recurrence) (*Habit, error) {
	if userID == "" {
		return nil, ErrHabitInvalidUserID
	}

	if err := validateHabit(title, category, mode, target, rec); err != nil {
		return nil, err
	}

	if mode == TrackingBinary {
		target = 1
	}

	now := time.Now().UTC()

	return &Habit{
		ID:           uuid.New().String(),
		UserID:       userID,
		Title:        strings.TrimSpace(title),
		Category:     category,
		TrackingMode: mode,
		TargetValue:  target,
		Recurrence: Recurrence{
			Kind:         rec.Kind,
			Weekdays:     normalizeWeekdays(rec.Weekdays),
			TimesPerWeek: rec.TimesPerWeek,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (h *Habit) Update(title, category, mode string, target int, rec Recurrence) error {
	if h.ArchivedAt != nil {
		return ErrHabitArchived
	}

	if err := validateHabit(title, category, mode, target, rec); err != nil {
		return err
	}

	if mode == TrackingBinary {
		target = 1
	}

	h.Title = strings.TrimSpace(title)
	h.Category = category
	h.TrackingMode = mode
	h.TargetValue = target
	h.Recurrence = Recurrence{
		Kind:         rec.Kind,
		Weekdays:     normalizeWeekdays(rec.Weekdays),
		TimesPerWeek: rec.TimesPerWeek,
	}
	h.UpdatedAt = time.Now().UTC()

	return nil
}

func (h *Habit) Archive() {
	if h.ArchivedAt != nil {
		return
	}

	now := time.Now().UTC()
	h.ArchivedAt = &now
	h.UpdatedAt = now
}

func (h *Habit) Restore() {
	if h.ArchivedAt == nil {
		return
	}
	h.ArchivedAt = nil
	h.UpdatedAt = time.Now().UTC()
}

func (h *Habit) Active() bool {
	return h.ArchivedAt == nil
}

// IsCompleted classifies a raw logged value against the habit's target.
// Binary habits complete on any positive value. Duration targets are stored
// in minutes while raw values arrive in seconds. A zero target (count or
// duration habit created without one) makes any nonnegative value complete;
// target configuration is validated upstream, not here.
func (h *Habit) IsCompleted(rawValue int) bool {
	switch h.TrackingMode {
	case TrackingDuration:
		return rawValue >= h.TargetValue*60
	case TrackingCount:
		return rawValue >= h.TargetValue
	default:
		return rawValue > 0
	}
}

// RecordCompletion advances the per-habit streak for a day that just flipped
// into completed. Callers invoke it at most once per (habit, date) transition;
// the prior completion flag on the daily log is what gates the call.
func (h *Habit) RecordCompletion(today time.Time) {
	todayKey := FormatDate(today)
	if h.LastCompletedDate == todayKey {
		return
	}

	prev, ok := h.Recurrence.PreviousDueDate(today)
	if ok && h.LastCompletedDate == FormatDate(prev) {
		h.CurrentStreak++
	} else {
		h.CurrentStreak = 1
	}

	if h.CurrentStreak > h.BestStreak {
		h.BestStreak = h.CurrentStreak
	}

	h.LastCompletedDate = todayKey
	h.UpdatedAt = time.Now().UTC()
}
