package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/myritu/internal/models"
	"github.com/terraincognita07/myritu/internal/services"
)

type profileView struct {
	models.Profile
	NeedsSetup bool     `json:"needs_setup"`
	LifeStages []string `json:"life_stages"`
}

func (handler *Handler) GetProfile(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	profile, err := handler.profileService.Load(user.ID)
	if err != nil {
		handler.logger.Error("load profile failed", "user_id", user.ID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to load profile")
	}
	return c.JSON(newProfileView(profile))
}

// UpdateProfile accepts a partial JSON object keyed by profile column names.
func (handler *Handler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	fields := map[string]any{}
	if err := parseJSONBody(c, &fields); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	profile, err := handler.profileService.Update(user.ID, fields)
	switch {
	case errors.Is(err, services.ErrNoValidProfileFields):
		return apiError(c, fiber.StatusBadRequest, "no valid fields; allowed: "+strings.Join(services.ProfileFieldAllowList(), ", "))
	case errors.Is(err, services.ErrInvalidProfileField):
		return apiError(c, fiber.StatusBadRequest, err.Error())
	case err != nil:
		handler.logger.Error("update profile failed", "user_id", user.ID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to update profile")
	}
	return c.JSON(newProfileView(profile))
}

func newProfileView(profile models.Profile) profileView {
	return profileView{
		Profile:    profile,
		NeedsSetup: services.NeedsSetup(profile),
		LifeStages: services.LifeStages(),
	}
}
