package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// NewApp creates the Fiber app. Ctx values are immutable: the dashboard keeps
// form values and the assessment cache keeps ids after the request ends.
func NewApp(appName string, writeTimeout time.Duration) *fiber.App {
	return fiber.New(fiber.Config{
		Prefork:       false,
		StrictRouting: true,
		CaseSensitive: true,
		Immutable:     true,
		ServerHeader:  "NPV-Risk",
		AppName:       appName,
		ReadTimeout:   time.Second * 10,
		WriteTimeout:  writeTimeout,
		BodyLimit:     4 * 1024 * 1024, // 4MB
		ErrorHandler:  CustomErrorHandler,
	})
}

// SetupRoutes mounts the page, chart, report and API routes on app
func SetupRoutes(app *fiber.App, simulation *SimulationHandler, dashboard *DashboardHandler, health *HealthHandler) {
	app.Get("/", dashboard.Index)
	app.Post("/assess", dashboard.Assess)
	app.Post("/demo", dashboard.Demo)
	app.Get("/charts/:kind", dashboard.Chart)
	app.Get("/report.pdf", dashboard.Report)

	app.Get("/health", health.Health)
	app.Get("/health/ready", health.Ready)

	api := app.Group("/api")
	api.Post("/simulate", simulation.Simulate)
	api.Get("/demo", simulation.Demo)
	api.Get("/assessments/:id", dashboard.Assessment)
}
