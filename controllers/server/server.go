package server

import (
	"persian-pages/constants"
	"persian-pages/logger"
	"persian-pages/models/category"
	"persian-pages/types"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ServerController struct {
	DB *gorm.DB
}

func NewServerController(db *gorm.DB) *ServerController {
	return &ServerController{DB: db}
}

// Health reports whether the database answers.
func (sc *ServerController) Health(c *fiber.Ctx) error {
	dbStatus := "ok"
	sqlDB, err := sc.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.UserContext())
	}
	if err != nil {
		logger.Error("Database health check failed", err)
		dbStatus = "unavailable"
	}

	status := fiber.StatusOK
	if dbStatus != "ok" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{
		"status":   dbStatus,
		"database": dbStatus,
	})
}

// Categories lists the directory categories in display order.
func (sc *ServerController) Categories(c *fiber.Ctx) error {
	var categories []category.Category
	if err := sc.DB.WithContext(c.UserContext()).Find(&categories).Error; err != nil {
		logger.Error("Failed to load categories", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: constants.MsgInternalError,
		})
	}

	order := make(map[string]int, len(category.Slugs))
	for i, slug := range category.Slugs {
		order[slug] = i
	}
	sorted := make([]category.Category, len(category.Slugs))
	var extra []category.Category
	for _, cat := range categories {
		if i, ok := order[cat.Slug]; ok {
			sorted[i] = cat
		} else {
			extra = append(extra, cat)
		}
	}
	result := make([]category.Category, 0, len(categories))
	for _, cat := range sorted {
		if cat.ID != "" {
			result = append(result, cat)
		}
	}
	result = append(result, extra...)

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: constants.MsgCategoriesListed,
		Data:    result,
	})
}
