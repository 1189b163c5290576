package middleware

import (
	"crypto/subtle"

	"persian-pages/constants"
	"persian-pages/types"

	"github.com/gofiber/fiber/v2"
)

// RequireScrapeKey guards the scrape endpoints with a shared key header. An
// empty configured key rejects every request.
func RequireScrapeKey(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		given := c.Get(constants.ScrapeKeyHeader)
		if key == "" || given == "" || subtle.ConstantTimeCompare([]byte(given), []byte(key)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Message: constants.MsgScrapeForbidden,
				Status:  fiber.StatusUnauthorized,
			})
		}
		return c.Next()
	}
}
