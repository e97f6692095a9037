package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/myritu/internal/services"
)

type chatInput struct {
	Message string `json:"message"`
}

func (handler *Handler) ChatHistory(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	history, err := handler.chatService.History(user.ID)
	if err != nil {
		handler.logger.Error("load chat history failed", "user_id", user.ID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to load chat history")
	}
	return c.JSON(fiber.Map{"available": handler.chatService.Available(), "messages": history})
}

func (handler *Handler) SendChat(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var input chatInput
	if err := parseJSONBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	exchange, err := handler.chatService.Send(c.UserContext(), user.ID, input.Message)
	switch {
	case errors.Is(err, services.ErrChatUnavailable):
		return apiError(c, fiber.StatusServiceUnavailable, "chat assistant is not configured")
	case errors.Is(err, services.ErrEmptyChatMessage):
		return apiError(c, fiber.StatusBadRequest, "message is required")
	case errors.Is(err, services.ErrChatMessageLong):
		return apiError(c, fiber.StatusBadRequest, "message is too long")
	case err != nil:
		handler.logger.Error("chat failed", "user_id", user.ID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to send message")
	}
	return c.JSON(exchange)
}
