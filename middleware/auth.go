package middleware

import (
	"errors"
	"fmt"
	"strings"

	"persian-pages/constants"
	"persian-pages/logger"
	"persian-pages/models/user"
	"persian-pages/types"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const userIDKey = "userID"

// VerifyJWT parses an HS256 session token and returns its claims.
func VerifyJWT(tokenString, secret string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWT: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid JWT token")
	}
	return claims, nil
}

// subject reads the user id from the "id" claim, falling back to "sub".
func subject(claims jwt.MapClaims) string {
	if id, ok := claims["id"].(string); ok && id != "" {
		return id
	}
	if sub, err := claims.GetSubject(); err == nil {
		return sub
	}
	return ""
}

// IsAuthenticated requires a Bearer token naming an existing user and stores
// the user id in the request locals.
func IsAuthenticated(db *gorm.DB, secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Message: constants.MsgUnauthorized,
				Status:  fiber.StatusUnauthorized,
			})
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Message: constants.MsgInvalidAuth,
				Status:  fiber.StatusUnauthorized,
			})
		}

		claims, err := VerifyJWT(tokenParts[1], secret)
		if err != nil {
			logger.Warning("Rejected session token: " + err.Error())
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Message: constants.MsgInvalidAuth,
				Status:  fiber.StatusUnauthorized,
			})
		}

		userID := subject(claims)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Message: constants.MsgInvalidAuth,
				Status:  fiber.StatusUnauthorized,
			})
		}

		var u user.User
		if err := db.WithContext(c.UserContext()).Select("id").Where("id = ?", userID).First(&u).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Error("Failed to load authenticated user", err)
			}
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Message: constants.MsgUserNotFound,
				Status:  fiber.StatusUnauthorized,
			})
		}

		c.Locals(userIDKey, u.ID)
		return c.Next()
	}
}

// UserID returns the authenticated user id, or "" outside IsAuthenticated.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(userIDKey).(string)
	return id
}
