package util

import "time"

// DayWindow returns the half-open [start, end) window of t's calendar day in
// t's location. A record stamped 23:59:59.999 falls inside; the next
// midnight exactly does not.
func DayWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.Add(24 * time.Hour)
}

// NextMidnight returns the first instant of the calendar day after t.
func NextMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, t.Location())
}

// ParseDeadline resolves a "HH:MM" deadline to a concrete instant on day's
// calendar date.
func ParseDeadline(deadline string, day time.Time) (time.Time, error) {
	tod, err := time.Parse("15:04", deadline)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), tod.Hour(), tod.Minute(), 0, 0, day.Location()), nil
}
