package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"npv-risk-web/internal/engine"
	"npv-risk-web/internal/models"
)

type SimulationHandler struct {
	engine  *engine.Engine
	demo    *models.SimulationRequest
	timeout time.Duration
	logger  *logrus.Logger
}

func NewSimulationHandler(eng *engine.Engine, demo *models.SimulationRequest, timeout time.Duration, logger *logrus.Logger) *SimulationHandler {
	return &SimulationHandler{
		engine:  eng,
		demo:    demo,
		timeout: timeout,
		logger:  logger,
	}
}

// Simulate handles POST /api/simulate
func (h *SimulationHandler) Simulate(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	var req models.SimulationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
			Code:    fiber.StatusBadRequest,
		})
	}

	result, err := h.engine.Run(ctx, req)
	if err != nil {
		var validationErr *models.ValidationError
		if errors.As(err, &validationErr) || errors.Is(err, engine.ErrSimulationLimit) {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
				Error: err.Error(),
				Code:  fiber.StatusBadRequest,
			})
		}

		h.logger.WithError(err).Error("Simulation failed")
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error:   "Simulation failed",
			Message: err.Error(),
			Code:    fiber.StatusInternalServerError,
		})
	}

	return c.JSON(result)
}

// Demo handles GET /api/demo
func (h *SimulationHandler) Demo(c *fiber.Ctx) error {
	return c.JSON(h.demo)
}

// CustomErrorHandler handles Fiber errors
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(models.ErrorResponse{
		Error:   "Request failed",
		Message: err.Error(),
		Code:    code,
	})
}
