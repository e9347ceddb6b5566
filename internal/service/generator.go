package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"habitly/config"
	"habitly/internal/model"
	"habitly/internal/util"
	"habitly/pkg/metrics"
	"habitly/pkg/mq"
)

// Generator ensures exactly one habit set exists for the current calendar
// day, seeded from the configured template. Safe to call any number of
// times per day: the presence of at least one record inside today's window
// is the idempotency signal.
type Generator struct {
	store    HabitStore
	template []config.TemplateEntry
	events   *mq.Publisher
	logger   *zap.Logger
	now      func() time.Time
}

func NewGenerator(store HabitStore, template []config.TemplateEntry, events *mq.Publisher, logger *zap.Logger) *Generator {
	return &Generator{
		store:    store,
		template: template,
		events:   events,
		logger:   logger,
		now:      time.Now,
	}
}

// EnsureTodayHabits generates today's habit set if it does not exist yet.
func (g *Generator) EnsureTodayHabits(ctx context.Context) error {
	now := g.now()
	start, end := util.DayWindow(now)

	existing, err := g.store.FindBetween(ctx, start, end)
	if err != nil {
		g.logger.Error("Failed to check existing habits for today", zap.Error(err))
		metrics.RecordHabitSetGeneration("failed")
		return err
	}

	if len(existing) > 0 {
		g.logger.Debug("Today's habits already exist",
			zap.Int("count", len(existing)),
			zap.Time("day", start),
		)
		metrics.RecordHabitSetGeneration("exists")
		return nil
	}

	habits := make([]model.Habit, 0, len(g.template))
	for _, entry := range g.template {
		habits = append(habits, model.Habit{
			ID:          uuid.NewString(),
			Name:        entry.Name,
			Deadline:    entry.Deadline,
			Description: entry.Description,
			Status:      false,
			Date:        now,
		})
	}

	if err := g.store.InsertMany(ctx, habits); err != nil {
		g.logger.Error("Failed to insert today's habits", zap.Error(err))
		metrics.RecordHabitSetGeneration("failed")
		return err
	}

	g.logger.Info("New daily habits created",
		zap.Int("count", len(habits)),
		zap.Time("day", start),
	)
	metrics.RecordHabitSetGeneration("created")

	payload := map[string]interface{}{
		"day":   start.Format("2006-01-02"),
		"count": len(habits),
	}
	if err := g.events.Publish("habit.day.generated", payload); err != nil {
		g.logger.Error("Failed to publish habit.day.generated event", zap.Error(err))
	}

	return nil
}
