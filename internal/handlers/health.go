package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ReadinessChecker reports whether a backing service can be used
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

type HealthHandler struct {
	startTime time.Time
	store     ReadinessChecker
	version   string
}

func NewHealthHandler(store ReadinessChecker, version string) *HealthHandler {
	return &HealthHandler{
		startTime: time.Now(),
		store:     store,
		version:   version,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": "npv-risk-web",
		"version": h.version,
		"uptime":  time.Since(h.startTime).String(),
		"time":    time.Now(),
	})
}

// Ready handles GET /health/ready
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	storeStatus := "ok"
	if err := h.store.Ready(ctx); err != nil {
		storeStatus = err.Error()
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable",
			"checks": fiber.Map{
				"api":   "ok",
				"store": storeStatus,
			},
		})
	}

	return c.JSON(fiber.Map{
		"status": "ready",
		"checks": fiber.Map{
			"api":   "ok",
			"store": storeStatus,
		},
	})
}
