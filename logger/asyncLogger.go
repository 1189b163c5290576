package logger

import (
	"sync"

	log_model "persian-pages/models/log"
	"persian-pages/types"

	"gorm.io/gorm"
)

// AsyncLogger persists audit entries off the request path.
type AsyncLogger struct {
	db      *gorm.DB
	channel chan types.LogEntry
	done    chan struct{}
	once    sync.Once
}

func NewAsyncLogger(db *gorm.DB) *AsyncLogger {
	return &AsyncLogger{
		db:      db,
		channel: make(chan types.LogEntry, 100),
		done:    make(chan struct{}),
	}
}

// ProcessLog drains the channel until Close is called.
func (l *AsyncLogger) ProcessLog() {
	defer close(l.done)
	Info("Starting asynchronous request logger")

	for entry := range l.channel {
		dbLog := log_model.Log{
			Method:     entry.Method,
			Path:       entry.Path,
			IP:         entry.IP,
			UserID:     entry.UserID,
			StatusCode: entry.StatusCode,
			DurationMs: entry.Duration.Milliseconds(),
			CreatedAt:  entry.CreatedAt,
		}

		if err := l.db.Create(&dbLog).Error; err != nil {
			Error("Failed to insert request log", err)
		}
	}
}

// Log queues an entry. When the buffer is full the entry is dropped rather
// than blocking the request.
func (l *AsyncLogger) Log(entry types.LogEntry) {
	select {
	case l.channel <- entry:
	default:
		Warning("Request log buffer full, dropping entry for " + entry.Path)
	}
}

// Close stops accepting entries and waits for the queue to drain.
func (l *AsyncLogger) Close() {
	l.once.Do(func() {
		close(l.channel)
	})
	<-l.done
}
