package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/signup", handler.Signup)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.Logout)

	api.Get("/profile", handler.AuthRequired, handler.GetProfile)
	api.Patch("/profile", handler.AuthRequired, handler.UpdateProfile)

	cycles := api.Group("/cycles", handler.AuthRequired)
	cycles.Get("", handler.ListCycles)
	cycles.Post("", handler.LogCycle)

	api.Get("/dashboard", handler.AuthRequired, handler.Dashboard)
	api.Get("/calendar", handler.AuthRequired, handler.Calendar)
	api.Get("/insights", handler.AuthRequired, handler.Insights)

	hormones := api.Group("/hormones", handler.AuthRequired)
	hormones.Get("", handler.Hormones)
	hormones.Get("/curve", handler.HormoneCurve)

	chat := api.Group("/chat", handler.AuthRequired)
	chat.Get("", handler.ChatHistory)
	chat.Post("", handler.SendChat)

	api.Delete("/account", handler.AuthRequired, handler.DeleteAccount)
}

// NotFound answers unmatched routes with the JSON error shape.
func (handler *Handler) NotFound(c *fiber.Ctx) error {
	return apiError(c, fiber.StatusNotFound, "not found")
}
