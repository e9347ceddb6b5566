package scheduler

import "time"

// Clock abstracts wall-clock reads and one-shot timers so reminder firing is
// deterministic under test. Timers are computed as a monotonic delay from
// the deadline at arm time, never as live cron expressions.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a cancellable one-shot timer.
type Timer interface {
	Stop() bool
}

type systemClock struct{}

// SystemClock returns the real wall-clock implementation.
func SystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
