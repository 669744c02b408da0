package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"

	"npv-risk-web/internal/charts"
	"npv-risk-web/internal/config"
	"npv-risk-web/internal/demo"
	"npv-risk-web/internal/engine"
	"npv-risk-web/internal/format"
	"npv-risk-web/internal/handlers"
	"npv-risk-web/internal/logging"
	"npv-risk-web/internal/services"
	"npv-risk-web/pkg/simapi"
	"npv-risk-web/web"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg := config.Load()
	log := logging.New(cfg)

	scenario, err := demo.Load(cfg.DemoScenarioPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to load demo scenario")
	}

	page, err := web.Page()
	if err != nil {
		log.WithError(err).Fatal("Failed to parse page template")
	}

	// Initialize services
	formatter := format.NewFormatter(cfg.Locale, cfg.CurrencySymbol)
	pipeline := charts.NewPipeline(charts.NewRegistry(), charts.Options{
		Width:  cfg.ChartWidth,
		Height: cfg.ChartHeight,
		Money:  formatter.CurrencyCompact,
	})
	dashboard := services.NewDashboard(pipeline, formatter)
	store := services.NewAssessmentStore(cfg, log)
	simulationEngine := engine.New(cfg.MaxSimulations, cfg.MaxWorkers, log)
	client := simapi.NewClient(cfg.SimulationServiceURL, cfg.RequestTimeout)
	controller := services.NewFormController(client, dashboard, store, log)

	// Initialize handlers
	simulationHandler := handlers.NewSimulationHandler(simulationEngine, scenario, cfg.RequestTimeout, log)
	dashboardHandler := handlers.NewDashboardHandler(controller, store, page, formatter, cfg.RequestTimeout, log)
	healthHandler := handlers.NewHealthHandler(store, version)

	app := handlers.NewApp("NPV Risk v"+version, cfg.RequestTimeout+10*time.Second)

	// Middleware stack
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept",
		AllowCredentials: false,
		MaxAge:           3600,
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// the page posts to /api/simulate on the same server
		Next: func(c *fiber.Ctx) bool {
			return c.IP() == "127.0.0.1"
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error": "Rate limit exceeded. Please try again later.",
			})
		},
	}))

	handlers.SetupRoutes(app, simulationHandler, dashboardHandler, healthHandler)

	// Graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.WithFields(logrus.Fields{
		"port":        cfg.Port,
		"environment": cfg.Environment,
		"simulation":  cfg.SimulationServiceURL,
		"persistent":  store.Persistent(),
	}).Info("NPV risk server started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.WithError(err).Fatal("Server forced to shutdown")
	}
	if err := store.Close(); err != nil {
		log.WithError(err).Warn("Failed to close assessment store")
	}

	log.Info("Server shutdown complete")
}
