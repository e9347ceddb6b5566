package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"habitly/internal/util"
)

// HabitGenerator is the day-rollover generation hook; implemented by
// service.Generator.
type HabitGenerator interface {
	EnsureTodayHabits(ctx context.Context) error
}

// Rearmer rebuilds the day's reminder timers; implemented by Reminder.
type Rearmer interface {
	RearmToday(ctx context.Context) error
}

// DayCycle drives the midnight boundary: on start it runs one cycle
// immediately (covering process restarts mid-day), then one at every local
// midnight. A failed cycle is logged and skipped; the next boundary retries
// naturally.
type DayCycle struct {
	generator HabitGenerator
	reminder  Rearmer
	logger    *zap.Logger
}

func NewDayCycle(generator HabitGenerator, reminder Rearmer, logger *zap.Logger) *DayCycle {
	return &DayCycle{
		generator: generator,
		reminder:  reminder,
		logger:    logger,
	}
}

// Run blocks until ctx is cancelled. Callers start it in its own goroutine.
func (d *DayCycle) Run(ctx context.Context) {
	d.cycle(ctx)

	for {
		// Recompute the delay each day instead of a fixed 24h tick so DST
		// shifts keep the boundary on local midnight.
		now := time.Now()
		next := util.NextMidnight(now)
		timer := time.NewTimer(next.Sub(now))

		d.logger.Info("Next day rollover scheduled", zap.Time("at", next))

		select {
		case <-ctx.Done():
			timer.Stop()
			d.logger.Info("Day cycle stopped")
			return
		case <-timer.C:
			d.logger.Info("Day rollover triggered")
			d.cycle(ctx)
		}
	}
}

func (d *DayCycle) cycle(ctx context.Context) {
	if err := d.generator.EnsureTodayHabits(ctx); err != nil {
		d.logger.Error("Daily habit generation failed, will retry next boundary", zap.Error(err))
		// Still rearm: reminders for an existing set must not be lost
		// because generation hiccupped.
	}

	if err := d.reminder.RearmToday(ctx); err != nil {
		d.logger.Error("Reminder rearming failed, will retry next boundary", zap.Error(err))
	}
}
