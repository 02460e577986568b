package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/kindledapp/kindled-engine/internal/core/domain"
)

// In-memory implementations backing service and handler tests. A NoopTransactor
// stands in for the SQL one: the memory repositories serialize through their
// own mutexes, so fn simply runs on the caller's context.

type NoopTransactor struct{}

func (NoopTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type InMemoryHabitRepository struct {
	store map[string]*domain.Habit

	mu sync.RWMutex
}

func NewInMemoryHabitRepository() *InMemoryHabitRepository {
	return &InMemoryHabitRepository{
		store: make(map[string]*domain.Habit),
	}
}

func (r *InMemoryHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[habit.ID] = habit
	return nil
}

func (r *InMemoryHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habit, ok := r.store[id]
	if !ok {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

func (r *InMemoryHabitRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Habit, error) {
	return r.GetByID(ctx, id)
}

func (r *InMemoryHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var habits []*domain.Habit
	for _, h := range r.store {
		if h.UserID == userID {
			habits = append(habits, h)
		}
	}

	sortHabits(habits)
	return habits, nil
}

func (r *InMemoryHabitRepository) ListActiveByCategory(ctx context.Context, userID, category string) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var habits []*domain.Habit
	for _, h := range r.store {
		if h.UserID == userID && h.Category == category && h.ArchivedAt == nil {
			habits = append(habits, h)
		}
	}

	sortHabits(habits)
	return habits, nil
}

func sortHabits(habits []*domain.Habit) {
	sort.Slice(habits, func(i, j int) bool {
		return habits[i].ID < habits[j].ID
	})
}

func (r *InMemoryHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[habit.ID]; !ok {
		return domain.ErrHabitNotFound
	}

	r.store[habit.ID] = habit
	return nil
}

func (r *InMemoryHabitRepository) UpdateStreaks(ctx context.Context, id string, current, best int, lastCompleted string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	habit, ok := r.store[id]
	if !ok {
		return domain.ErrHabitNotFound
	}

	habit.CurrentStreak = current
	habit.BestStreak = best
	habit.LastCompletedDate = lastCompleted
	return nil
}

func (r *InMemoryHabitRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrHabitNotFound
	}

	delete(r.store, id)
	return nil
}

type InMemoryDailyLogRepository struct {
	store map[string]*domain.DailyLog // keyed by habitID + "|" + date

	mu sync.RWMutex
}

func NewInMemoryDailyLogRepository() *InMemoryDailyLogRepository {
	return &InMemoryDailyLogRepository{
		store: make(map[string]*domain.DailyLog),
	}
}

func logKey(habitID, date string) string {
	return habitID + "|" + date
}

func (r *InMemoryDailyLogRepository) GetByHabitAndDate(ctx context.Context, habitID, date string) (*domain.DailyLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	log, ok := r.store[logKey(habitID, date)]
	if !ok {
		return nil, domain.ErrLogNotFound
	}
	return log, nil
}

func (r *InMemoryDailyLogRepository) Upsert(ctx context.Context, log *domain.DailyLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := logKey(log.HabitID, log.LogDate)
	if existing, ok := r.store[key]; ok {
		if log.ID == "" {
			log.ID = existing.ID
		}
	} else if log.ID == "" {
		log.ID = key
	}

	r.store[key] = log
	return nil
}

func (r *InMemoryDailyLogRepository) ListByUserAndDate(ctx context.Context, userID, date string) ([]*domain.DailyLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var logs []*domain.DailyLog
	for _, l := range r.store {
		if l.UserID == userID && l.LogDate == date {
			logs = append(logs, l)
		}
	}

	sort.Slice(logs, func(i, j int) bool {
		return logs[i].HabitID < logs[j].HabitID
	})
	return logs, nil
}

type InMemoryStatsRepository struct {
	daily    map[string]*domain.DailyCategoryStat // userID|category|date
	lifetime map[string]*domain.UserCategoryStat  // userID|category

	mu sync.RWMutex
}

func NewInMemoryStatsRepository() *InMemoryStatsRepository {
	return &InMemoryStatsRepository{
		daily:    make(map[string]*domain.DailyCategoryStat),
		lifetime: make(map[string]*domain.UserCategoryStat),
	}
}

func dailyKey(userID, category, date string) string {
	return userID + "|" + category + "|" + date
}

func lifetimeKey(userID, category string) string {
	return userID + "|" + category
}

func (r *InMemoryStatsRepository) GetDailyCategoryStat(ctx context.Context, userID, category, date string) (*domain.DailyCategoryStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stat, ok := r.daily[dailyKey(userID, category, date)]
	if !ok {
		return nil, domain.ErrStatNotFound
	}
	return stat, nil
}

func (r *InMemoryStatsRepository) UpsertDailyCategoryStat(ctx context.Context, stat *domain.DailyCategoryStat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := dailyKey(stat.UserID, stat.Category, stat.StatDate)
	if stat.ID == "" {
		stat.ID = key
	}
	r.daily[key] = stat
	return nil
}

func (r *InMemoryStatsRepository) ApplyLifetimeDelta(ctx context.Context, userID, category string, delta int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := lifetimeKey(userID, category)
	stat, ok := r.lifetime[key]
	if !ok {
		stat = &domain.UserCategoryStat{
			ID:       key,
			UserID:   userID,
			Category: category,
		}
		r.lifetime[key] = stat
	}

	stat.LifetimeXP += delta
	return stat.LifetimeXP, nil
}

func (r *InMemoryStatsRepository) GetUserCategoryStat(ctx context.Context, userID, category string) (*domain.UserCategoryStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stat, ok := r.lifetime[lifetimeKey(userID, category)]
	if !ok {
		return nil, domain.ErrStatNotFound
	}
	return stat, nil
}

func (r *InMemoryStatsRepository) ListDailyCategoryStats(ctx context.Context, userID, category, from, to string) ([]*domain.DailyCategoryStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stats []*domain.DailyCategoryStat
	for _, st := range r.daily {
		if st.UserID == userID && st.Category == category && st.StatDate >= from && st.StatDate <= to {
			stats = append(stats, st)
		}
	}

	sort.Slice(stats, func(i, j int) bool {
		return stats[i].StatDate < stats[j].StatDate
	})
	return stats, nil
}

type InMemoryUserRepository struct {
	store map[string]*domain.User

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		store: make(map[string]*domain.User),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.store {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}

	r.store[user.ID] = user
	return nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *InMemoryUserRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.User, error) {
	return r.GetByID(ctx, id)
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.store {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *InMemoryUserRepository) UpdateGlobalStreak(ctx context.Context, id string, streak int, lastCompleted string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.store[id]
	if !ok {
		return domain.ErrUserNotFound
	}

	user.GlobalStreak = streak
	user.LastCompletedDate = lastCompleted
	return nil
}
