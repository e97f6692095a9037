package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/myritu/internal/services"
)

func (handler *Handler) Dashboard(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	summary, err := handler.dashboardService.Build(user.ID, handler.today())
	if err != nil {
		handler.logger.Error("build dashboard failed", "user_id", user.ID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to load dashboard")
	}
	return c.JSON(summary)
}

func (handler *Handler) Calendar(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	events, err := handler.calendarService.Events(user.ID)
	if err != nil {
		handler.logger.Error("build calendar failed", "user_id", user.ID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to load calendar")
	}
	return c.JSON(fiber.Map{"events": events})
}

func (handler *Handler) Hormones(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"phases": handler.calendarService.HormoneHub()})
}

// HormoneCurve charts the illustrative curves for ?cycle_length=N, defaulting
// to the caller's profile length.
func (handler *Handler) HormoneCurve(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	cycleLength := c.QueryInt("cycle_length", 0)
	if cycleLength == 0 {
		profile, err := handler.profileService.Load(user.ID)
		if err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to load profile")
		}
		cycleLength = profile.AvgCycleLength
	}
	if cycleLength <= 0 {
		cycleLength = services.DefaultCycleLength
	}
	if !services.IsValidCycleLength(cycleLength) {
		return apiError(c, fiber.StatusBadRequest, "cycle_length must be between 15 and 90")
	}

	return c.JSON(fiber.Map{
		"cycle_length": cycleLength,
		"samples":      services.GenerateCurve(cycleLength),
	})
}

func (handler *Handler) Insights(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	insights, err := handler.insightsService.Build(user.ID)
	if err != nil {
		handler.logger.Error("build insights failed", "user_id", user.ID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to load insights")
	}
	return c.JSON(insights)
}
