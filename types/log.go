package types

import "time"

// LogEntry is one audited request waiting to be persisted.
type LogEntry struct {
	Method     string
	Path       string
	IP         string
	UserID     string
	StatusCode int
	Duration   time.Duration
	CreatedAt  time.Time
}
