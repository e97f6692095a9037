package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/myritu/internal/models"
	"github.com/terraincognita07/myritu/internal/services"
)

type signupInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type loginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userView struct {
	ID               uint   `json:"id"`
	Username         string `json:"username"`
	Email            string `json:"email,omitempty"`
	RegistrationDate string `json:"registration_date"`
}

func newUserView(user *models.User) userView {
	view := userView{ID: user.ID, Username: user.Username}
	if user.Email != nil {
		view.Email = *user.Email
	}
	if !user.RegistrationDate.IsZero() {
		view.RegistrationDate = services.FormatDate(user.RegistrationDate)
	}
	return view
}

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (handler *Handler) Signup(c *fiber.Ctx) error {
	var input signupInput
	if err := parseJSONBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, err := handler.authService.Signup(input.Username, input.Password, input.Email)
	switch {
	case errors.Is(err, services.ErrInvalidUsername):
		return apiError(c, fiber.StatusBadRequest, "username must be 3 to 64 characters")
	case errors.Is(err, services.ErrWeakPassword):
		return apiError(c, fiber.StatusBadRequest, "weak password")
	case errors.Is(err, services.ErrInvalidEmail):
		return apiError(c, fiber.StatusBadRequest, "invalid email")
	case errors.Is(err, services.ErrUsernameTaken):
		return apiError(c, fiber.StatusConflict, "username or email already exists")
	case err != nil:
		handler.logger.Error("signup failed", "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to create account")
	}

	if err := handler.setAuthCookie(c, &user); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": newUserView(&user), "needs_setup": true})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	limiterKey := requestLimiterKey(c)
	if handler.loginLimiter.blocked(limiterKey, handler.now()) {
		return apiError(c, fiber.StatusTooManyRequests, "too many login attempts")
	}

	var input loginInput
	if err := parseJSONBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, err := handler.authService.Login(input.Username, input.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		handler.loginLimiter.recordFailure(limiterKey, handler.now())
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		handler.logger.Error("login failed", "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to log in")
	}
	handler.loginLimiter.reset(limiterKey)

	profile, err := handler.profileService.Load(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load profile")
	}
	if err := handler.setAuthCookie(c, &user); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.JSON(fiber.Map{"user": newUserView(&user), "needs_setup": services.NeedsSetup(profile)})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

// DeleteAccount removes the user together with all logged data.
func (handler *Handler) DeleteAccount(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if err := handler.authService.DeleteAccount(user.ID); err != nil {
		handler.logger.Error("delete account failed", "user_id", user.ID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to delete account")
	}
	handler.clearAuthCookie(c)
	return sendNoContent(c)
}
