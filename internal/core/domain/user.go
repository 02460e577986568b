package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
)

type User struct {
	ID           string `json:"id" db:"id"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`

	// Global streak: consecutive calendar days with at least one completed
	// habit, schedule-agnostic. Independent of any single habit's streak.
	GlobalStreak      int    `json:"global_streak" db:"global_streak"`
	LastCompletedDate string `json:"last_completed_date,omitempty" db:"last_completed_date"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func NewUser(id, email string) (*User, error) {
	email = strings.TrimSpace(email)

	if !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	now := time.Now().UTC()
	return &User{
		ID:        id,
		Email:     strings.ToLower(email),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (u *User) SetPassword(plainPassword string) error {
	if utf8.RuneCountInString(plainPassword) < 8 {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plainPassword), 12)
	if err != nil {
		return err
	}

	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (u *User) CheckPassword(plainPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plainPassword))
}

// RecordGlobalCompletion advances the app-wide streak when a day flips into
// completed. Unlike the per-habit streak it uses literal yesterday: the global
// counter answers "did the user complete anything, any day, without gaps".
func (u *User) RecordGlobalCompletion(today time.Time) {
	todayKey := FormatDate(today)
	if u.LastCompletedDate == todayKey {
		return
	}

	yesterdayKey := FormatDate(today.AddDate(0, 0, -1))
	if u.LastCompletedDate == yesterdayKey {
		u.GlobalStreak++
	} else {
		u.GlobalStreak = 1
	}

	u.LastCompletedDate = todayKey
	u.UpdatedAt = time.Now().UTC()
}

// DisplayStreak returns the streak value to show as of today. A stored streak
// whose last completion is older than yesterday reads as 0; the stored value
// is left stale on purpose and resets on the next completion event.
func (u *User) DisplayStreak(today time.Time) int {
	if u.GlobalStreak == 0 {
		return 0
	}

	todayKey := FormatDate(today)
	yesterdayKey := FormatDate(today.AddDate(0, 0, -1))

	if u.LastCompletedDate == todayKey || u.LastCompletedDate == yesterdayKey {
		return u.GlobalStreak
	}
	return 0
}

func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}
