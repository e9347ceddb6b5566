package model

import "time"

// Habit is one task instance for one calendar day. A fresh set is generated
// from the configured template at every day rollover; records are never
// deleted, the full history feeds the completion aggregation.
type Habit struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Deadline    string    `json:"deadline"` // "HH:MM", local time
	Description string    `json:"description"`
	Status      bool      `json:"status"`
	Date        time.Time `json:"date"`
}

// CompletionEntry summarizes one calendar day of habits.
type CompletionEntry struct {
	Date       string  `json:"date"` // "2006-01-02"
	Percentage float64 `json:"completion_percentage"`
}
