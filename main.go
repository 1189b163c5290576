package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"persian-pages/config"
	"persian-pages/database"
	"persian-pages/logger"
	"persian-pages/metrics"
	"persian-pages/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	env := godotenv.Load()
	if env != nil {
		logger.Warning("No .env file loaded: " + env.Error())
	}
	cfg := config.Load()

	logFile, err := logger.Setup(cfg.LogDir)
	if err != nil {
		logger.Error("Failed to set up file logging", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	app := fiber.New(fiber.Config{
		ReadBufferSize:  32768, // 32KB read buffer
		WriteBufferSize: 32768, // 32KB write buffer
		ReadTimeout:     time.Second * 30,
		WriteTimeout:    time.Second * 30,
		BodyLimit:       4 * 1024 * 1024,
	})

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to the database: " + err.Error())
	}

	metrics.MustRegister()

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.FrontendURL,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Scrape-Key",
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	services, err := routes.NewServices(ctx, db, cfg)
	if err != nil {
		logger.Error("Failed to initialize services", err)
		return
	}
	routes.SetupRoutes(app, db, cfg, services)

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			logger.Error("Server shutdown failed", err)
		}
	}()

	addr := fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort)
	logger.Success("Server is running on ip: " + cfg.AppHost + " port: " + cfg.AppPort +
		"\n\t\t\t\t\t\t******************************************************************************************\n")
	if err := app.Listen(addr); err != nil {
		logger.Error("Server stopped", err)
	}

	services.Shutdown()
	logger.Success("Shutdown complete")
}
