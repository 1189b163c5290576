package middleware

import (
	"strconv"
	"strings"
	"time"

	"persian-pages/logger"
	"persian-pages/metrics"
	"persian-pages/utils"

	"github.com/gofiber/fiber/v2"
)

// Audit records every request that passes through it in request_logs.
func Audit(asyncLogger *logger.AsyncLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		started := time.Now()
		err := c.Next()
		asyncLogger.Log(utils.CreateLogEntry(c, UserID(c), started))
		return err
	}
}

// Metrics counts requests by method, route pattern and status.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		started := time.Now()
		err := c.Next()

		path := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		method := strings.Clone(c.Method())
		metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDurationSeconds.WithLabelValues(method, path).Observe(time.Since(started).Seconds())
		return err
	}
}
