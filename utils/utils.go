package utils

import (
	"strings"
	"time"

	"persian-pages/types"

	"github.com/gofiber/fiber/v2"
)

// CreateLogEntry copies the request data out of the fiber context. Fiber
// recycles its buffers once the handler returns, so every string is cloned.
func CreateLogEntry(c *fiber.Ctx, userID string, started time.Time) types.LogEntry {
	return types.LogEntry{
		Method:     strings.Clone(c.Method()),
		Path:       strings.Clone(c.OriginalURL()),
		IP:         strings.Clone(c.IP()),
		UserID:     userID,
		StatusCode: c.Response().StatusCode(),
		Duration:   time.Since(started),
		CreatedAt:  time.Now(),
	}
}

// DefaultInt returns def when v is not positive.
func DefaultInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
