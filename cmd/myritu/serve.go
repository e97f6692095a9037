package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/myritu/internal/api"
	"github.com/terraincognita07/myritu/internal/config"
	"github.com/terraincognita07/myritu/internal/db"
	"github.com/terraincognita07/myritu/internal/llm"
	"github.com/terraincognita07/myritu/internal/logger"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), *configFile)
		},
	}
}

func runServe(ctx context.Context, configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	log := logger.Setup(cfg.LogLevel)

	location := cfg.Location()
	time.Local = location

	database, err := db.OpenSQLite(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer sqlDB.Close()

	generator, err := llm.New(ctx, cfg.LLMClientConfig(), log)
	if err != nil {
		return fmt.Errorf("chat assistant init failed: %w", err)
	}
	if generator == nil {
		log.Info("chat assistant disabled", "provider", cfg.LLM.Provider)
	}

	handler, err := api.NewHandler(db.NewRepositories(database), api.Options{
		SecretKey:    cfg.SecretKey,
		Location:     location,
		CookieSecure: cfg.CookieSecure,
		Generator:    generator,
		Logger:       log,
	})
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}

	app := newApp(handler)

	serveErr := make(chan error, 1)
	go func() {
		log.Info("myritu listening", "addr", cfg.Addr(), "db", cfg.DBPath, "tz", location.String(), "llm", cfg.LLM.Provider)
		serveErr <- app.Listen(cfg.Addr())
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server exited: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
		return err
	}
	log.Info("server stopped")
	return nil
}

func newApp(handler *api.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "myritu",
		DisableStartupMessage: true,
		ErrorHandler:          jsonErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "${time} ${status} ${method} ${path} ${latency}\n",
		TimeFormat: time.RFC3339,
	}))
	app.Use(compress.New())

	api.RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app
}

// jsonErrorHandler keeps framework errors (body limits, panics) in the API's
// error shape.
func jsonErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "internal server error"
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
		message = fiberErr.Message
	} else {
		slog.Error("unhandled request error", "path", c.Path(), "error", err)
	}
	return c.Status(status).JSON(fiber.Map{"error": message})
}
