package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/myritu/internal/services"
)

func (handler *Handler) ListCycles(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	history, err := handler.cycleLogService.History(user.ID)
	if err != nil {
		handler.logger.Error("load cycle history failed", "user_id", user.ID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to load history")
	}
	return c.JSON(fiber.Map{"entries": history})
}

func (handler *Handler) LogCycle(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var input services.CycleEntryInput
	if err := parseJSONBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	entry, err := handler.cycleLogService.Log(user.ID, input)
	if errors.Is(err, services.ErrInvalidCycleEntry) {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	if err != nil {
		handler.logger.Error("log cycle failed", "user_id", user.ID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to save entry")
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}
