package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"habitly/internal/model"
	"habitly/internal/util"
	"habitly/pkg/mq"
)

// HabitService owns the request-driven habit operations: listing today's set
// and flipping a single record's completion flag.
type HabitService struct {
	store  HabitStore
	events *mq.Publisher
	logger *zap.Logger
	now    func() time.Time
}

func NewHabitService(store HabitStore, events *mq.Publisher, logger *zap.Logger) *HabitService {
	return &HabitService{
		store:  store,
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

// ListTodayHabits returns the records generated for the current calendar day.
func (s *HabitService) ListTodayHabits(ctx context.Context) ([]model.Habit, error) {
	start, end := util.DayWindow(s.now())
	return s.store.FindBetween(ctx, start, end)
}

// SetStatus updates one habit's completion flag and returns the updated
// record. The completion cache is deliberately left alone: readers may see
// percentages up to the cache TTL stale after a status change.
func (s *HabitService) SetStatus(ctx context.Context, id string, status bool) (*model.Habit, error) {
	h, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Habit status updated",
		zap.String("id", h.ID),
		zap.String("name", h.Name),
		zap.Bool("status", h.Status),
	)

	payload := map[string]interface{}{
		"habit_id": h.ID,
		"name":     h.Name,
		"status":   h.Status,
		"date":     h.Date.Format("2006-01-02"),
	}
	if err := s.events.Publish("habit.status.changed", payload); err != nil {
		s.logger.Error("Failed to publish habit.status.changed event", zap.Error(err))
	}

	return h, nil
}
