package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"habitly/internal/model"
	"habitly/internal/util"
	"habitly/pkg/metrics"
	"habitly/pkg/mq"
)

// HabitReader is the store surface the scheduler needs: the day's list at
// arm time and a fresh single-record read at fire time.
type HabitReader interface {
	FindBetween(ctx context.Context, start, end time.Time) ([]model.Habit, error)
	FindByID(ctx context.Context, id string) (*model.Habit, error)
}

// Notifier dispatches a reminder for one habit. Fire-and-forget: failures
// are logged by the scheduler and never retried.
type Notifier interface {
	Send(ctx context.Context, recipient, habitName string) error
}

// OnceGuard enforces at-most-once dispatch per key. The Redis-backed
// implementation keeps a restart within the same day from re-sending.
type OnceGuard interface {
	AcquireOnce(ctx context.Context, scope, id string) bool
}

const fireGrace = time.Minute

// Reminder arms one timer per habit per day at deadline+1 minute. Each
// timer moves Armed -> Fired -> Resolved exactly once: at fire time the
// habit's current status is re-read from the store, and a reminder goes out
// only if it is still incomplete. Timers live in process memory only and
// are rebuilt at every day rollover and process start; fire times already
// in the past are skipped, not replayed.
type Reminder struct {
	store     HabitReader
	notifier  Notifier
	guard     OnceGuard
	events    *mq.Publisher
	clock     Clock
	recipient string
	logger    *zap.Logger

	mu     sync.Mutex
	timers map[string]Timer
}

func NewReminder(
	store HabitReader,
	notifier Notifier,
	guard OnceGuard,
	events *mq.Publisher,
	clock Clock,
	recipient string,
	logger *zap.Logger,
) *Reminder {
	return &Reminder{
		store:     store,
		notifier:  notifier,
		guard:     guard,
		events:    events,
		clock:     clock,
		recipient: recipient,
		logger:    logger,
		timers:    make(map[string]Timer),
	}
}

// RearmToday drops any previously armed timers and arms a fresh one per
// habit in the current day's set.
func (r *Reminder) RearmToday(ctx context.Context) error {
	now := r.clock.Now()
	start, end := util.DayWindow(now)

	habits, err := r.store.FindBetween(ctx, start, end)
	if err != nil {
		r.logger.Error("Failed to load today's habits for reminder arming", zap.Error(err))
		return err
	}

	r.mu.Lock()
	for id, t := range r.timers {
		t.Stop()
		delete(r.timers, id)
	}
	r.mu.Unlock()

	armed := 0
	for _, h := range habits {
		fireAt, err := fireTime(h.Deadline, now)
		if err != nil {
			r.logger.Warn("Skipping habit with unparseable deadline",
				zap.String("id", h.ID),
				zap.String("deadline", h.Deadline),
				zap.Error(err),
			)
			continue
		}

		delay := fireAt.Sub(now)
		if delay <= 0 {
			// Missed while down; accepted gap, no retroactive firing.
			r.logger.Debug("Fire time already passed, not arming",
				zap.String("id", h.ID),
				zap.String("name", h.Name),
				zap.Time("fire_at", fireAt),
			)
			continue
		}

		id := h.ID
		r.mu.Lock()
		r.timers[id] = r.clock.AfterFunc(delay, func() {
			r.fire(id)
		})
		r.mu.Unlock()
		armed++

		r.logger.Debug("Armed reminder",
			zap.String("id", h.ID),
			zap.String("name", h.Name),
			zap.Time("fire_at", fireAt),
		)
	}

	r.logger.Info("Reminder timers rebuilt",
		zap.Int("armed", armed),
		zap.Int("habits", len(habits)),
	)
	return nil
}

// Stop cancels all armed timers. Called on shutdown.
func (r *Reminder) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.timers {
		t.Stop()
		delete(r.timers, id)
	}
}

// fire resolves one habit's timer: re-read current status, notify if still
// incomplete, never re-arm.
func (r *Reminder) fire(habitID string) {
	r.mu.Lock()
	delete(r.timers, habitID)
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	h, err := r.store.FindByID(ctx, habitID)
	if err != nil {
		r.logger.Error("Failed to re-read habit at fire time",
			zap.String("id", habitID),
			zap.Error(err),
		)
		metrics.RecordReminderDispatch("failed")
		return
	}

	if h.Status {
		r.logger.Debug("Habit completed before fire time, no reminder",
			zap.String("id", h.ID),
			zap.String("name", h.Name),
		)
		metrics.RecordReminderDispatch("completed")
		return
	}

	day := r.clock.Now().Format("2006-01-02")
	if !r.guard.AcquireOnce(ctx, "reminder:"+day, h.ID) {
		metrics.RecordReminderDispatch("duplicate")
		return
	}

	if err := r.notifier.Send(ctx, r.recipient, h.Name); err != nil {
		// Best effort: log and move on, the timer is spent either way.
		r.logger.Error("Reminder dispatch failed",
			zap.String("id", h.ID),
			zap.String("name", h.Name),
			zap.Error(err),
		)
		metrics.RecordReminderDispatch("failed")
		return
	}

	r.logger.Info("Reminder sent",
		zap.String("id", h.ID),
		zap.String("name", h.Name),
	)
	metrics.RecordReminderDispatch("sent")

	payload := map[string]interface{}{
		"habit_id": h.ID,
		"name":     h.Name,
		"day":      day,
	}
	if err := r.events.Publish("habit.reminder.sent", payload); err != nil {
		r.logger.Error("Failed to publish habit.reminder.sent event", zap.Error(err))
	}
}

// fireTime resolves a "HH:MM" deadline to today's dispatch instant,
// deadline plus one minute of grace.
func fireTime(deadline string, day time.Time) (time.Time, error) {
	at, err := util.ParseDeadline(deadline, day)
	if err != nil {
		return time.Time{}, err
	}
	return at.Add(fireGrace), nil
}
