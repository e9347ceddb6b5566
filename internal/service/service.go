package service

import (
	"context"
	"time"

	"habitly/internal/model"
	"habitly/internal/repository"
)

// ErrHabitNotFound mirrors the repository sentinel so callers of the service
// layer do not need to reach into the storage package.
var ErrHabitNotFound = repository.ErrHabitNotFound

// HabitStore is the persistence surface the services need. Implemented by
// repository.HabitRepository; tests substitute counting doubles.
type HabitStore interface {
	InsertMany(ctx context.Context, habits []model.Habit) error
	FindBetween(ctx context.Context, start, end time.Time) ([]model.Habit, error)
	FindAll(ctx context.Context) ([]model.Habit, error)
	FindByID(ctx context.Context, id string) (*model.Habit, error)
	UpdateStatus(ctx context.Context, id string, status bool) (*model.Habit, error)
}

// SeriesCache is the TTL cache holding the serialized completion series.
type SeriesCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	SetWithTTL(ctx context.Context, key, payload string, ttl time.Duration) error
}
