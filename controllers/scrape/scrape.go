package scrape

import (
	"errors"
	"time"

	"persian-pages/constants"
	"persian-pages/logger"
	scrapeService "persian-pages/services/scrape"
	"persian-pages/types"
	scrapeTypes "persian-pages/types/scrape"
	"persian-pages/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ScrapeController starts scrape jobs and reports on them
type ScrapeController struct {
	DB           *gorm.DB
	Runner       *scrapeService.JobRunner
	DefaultLimit int
	Now          func() time.Time
}

func NewScrapeController(db *gorm.DB, runner *scrapeService.JobRunner, defaultLimit int) *ScrapeController {
	return &ScrapeController{
		DB:           db,
		Runner:       runner,
		DefaultLimit: utils.DefaultInt(defaultLimit, constants.DefaultAPIScrapeLimit),
		Now:          time.Now,
	}
}

// Start validates the request and launches a background scrape
func (sc *ScrapeController) Start(c *fiber.Ctx) error {
	var req scrapeTypes.StartScrapeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			logger.Error("Failed to parse request body", err)
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: constants.MsgInvalidBody,
			})
		}
	}

	if req.City != "" {
		if _, ok := scrapeService.FindCity(req.City); !ok {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: constants.MsgUnknownCity,
			})
		}
	}

	job, err := sc.Runner.Start(c.UserContext(), scrapeService.Options{
		City:    req.City,
		Country: req.Country,
		DryRun:  req.DryRun,
		Limit:   utils.DefaultInt(req.Limit, sc.DefaultLimit),
	})
	if err != nil {
		logger.Error("Failed to start scrape job", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: constants.MsgInternalError,
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(types.ApiResponse{
		Status:  fiber.StatusAccepted,
		Message: constants.MsgScrapeStarted,
		Data: scrapeTypes.StartScrapeResponse{
			JobID:  job.ID,
			Status: "started",
			City:   job.City,
		},
	})
}

// Status returns the state of one job
func (sc *ScrapeController) Status(c *fiber.Ctx) error {
	job, err := sc.Runner.Store.Get(c.UserContext(), c.Params("jobId"))
	if errors.Is(err, scrapeService.ErrJobNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: constants.MsgJobNotFound,
		})
	}
	if err != nil {
		logger.Error("Failed to load scrape job", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: constants.MsgInternalError,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: constants.MsgJobFound,
		Data:    job,
	})
}

// FixPhones rewrites stored phones to E.164
func (sc *ScrapeController) FixPhones(c *fiber.Ctx) error {
	var req scrapeTypes.FixPhonesRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			logger.Error("Failed to parse request body", err)
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: constants.MsgInvalidBody,
			})
		}
	}

	result, err := scrapeService.FixPhones(c.UserContext(), sc.DB, req.DryRun)
	if err != nil {
		logger.Error("Failed to fix listing phones", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: constants.MsgInternalError,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: constants.MsgPhonesFixed,
		Data:    result,
	})
}

// Stats summarizes scrape activity for today and this week
func (sc *ScrapeController) Stats(c *fiber.Ctx) error {
	stats, err := scrapeService.CollectStats(c.UserContext(), sc.DB, sc.Now())
	if err != nil {
		logger.Error("Failed to collect scrape stats", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: constants.MsgInternalError,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: constants.MsgScrapeStats,
		Data:    stats,
	})
}
