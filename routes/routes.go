package routes

import (
	"context"

	"persian-pages/config"
	"persian-pages/controllers/listing"
	scrapeController "persian-pages/controllers/scrape"
	"persian-pages/controllers/server"
	verificationController "persian-pages/controllers/verification"
	"persian-pages/httpServices/twilio"
	"persian-pages/logger"
	"persian-pages/middleware"
	"persian-pages/services/claim"
	otpService "persian-pages/services/otp"
	"persian-pages/services/scrape"
	"persian-pages/services/verification"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Services holds the long-lived services behind the routes.
type Services struct {
	Verification *verification.Service
	Claims       *claim.Service
	Jobs         *scrape.JobRunner
	AsyncLogger  *logger.AsyncLogger
}

// NewServices wires the production services from cfg.
func NewServices(ctx context.Context, db *gorm.DB, cfg config.Config) (*Services, error) {
	pipeline, err := scrape.NewPipelineFromConfig(ctx, db, cfg)
	if err != nil {
		return nil, err
	}

	verifier := verification.NewService(db, otpService.NewOTPService(twilio.NewMessenger(cfg)), verification.NewTokenIssuer(cfg.JWTSecret))
	return &Services{
		Verification: verifier,
		Claims:       claim.NewService(db, verifier),
		Jobs:         scrape.NewJobRunner(scrape.NewJobStore(cfg, db), pipeline.Run),
		AsyncLogger:  logger.NewAsyncLogger(db),
	}, nil
}

// Shutdown waits for running scrape jobs and flushes the audit log.
func (s *Services) Shutdown() {
	s.Jobs.Wait()
	s.AsyncLogger.Close()
}

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg config.Config, svc *Services) {
	serverController := server.NewServerController(db)
	verificationCtrl := verificationController.NewVerificationController(svc.Verification)
	listingController := listing.NewListingController(svc.Claims)
	scrapeCtrl := scrapeController.NewScrapeController(db, svc.Jobs, cfg.ScrapeDefaultLimit)

	// Start the async logger processing goroutine
	go svc.AsyncLogger.ProcessLog()

	app.Use(middleware.Metrics())
	app.Get("/health", serverController.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	requireUser := middleware.IsAuthenticated(db, cfg.JWTSecret)
	audit := middleware.Audit(svc.AsyncLogger)

	/*=============================================================================
	| Public Routes
	===============================================================================*/
	api := app.Group("/api")
	api.Get("/categories", serverController.Categories)

	/*=============================================================================
	| Verification Routes
	===============================================================================*/
	verificationGroup := api.Group("/verification", requireUser, audit)
	verificationGroup.Get("/phone-hint/:listingId", verificationCtrl.PhoneHint)
	verificationGroup.Post("/send", verificationCtrl.SendCode)
	verificationGroup.Post("/confirm", verificationCtrl.ConfirmCode)

	/*=============================================================================
	| Listing Routes
	===============================================================================*/
	listingGroup := api.Group("/listings")
	listingGroup.Get("/user/me", requireUser, listingController.Mine)
	listingGroup.Get("/:idOrSlug", listingController.Show)
	listingGroup.Post("/", requireUser, audit, listingController.Store)
	listingGroup.Put("/:id", requireUser, audit, listingController.Update)
	listingGroup.Delete("/:id", requireUser, audit, listingController.Destroy)
	listingGroup.Post("/:id/claim", requireUser, audit, listingController.Claim)

	/*=============================================================================
	| Scrape Routes
	===============================================================================*/
	scrapeGroup := api.Group("/scrape", middleware.RequireScrapeKey(cfg.ScrapeAPIKey), audit)
	scrapeGroup.Post("/", scrapeCtrl.Start)
	scrapeGroup.Get("/stats", scrapeCtrl.Stats)
	scrapeGroup.Post("/fix-phones", scrapeCtrl.FixPhones)
	scrapeGroup.Get("/:jobId", scrapeCtrl.Status)
}
