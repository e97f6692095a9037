package api

import (
	"github.com/gofiber/fiber/v2"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// parseJSONBody rejects anything that is not a JSON body decodable into out.
func parseJSONBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return fiber.ErrBadRequest
	}
	if err := c.BodyParser(out); err != nil {
		return err
	}
	return nil
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
