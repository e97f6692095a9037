package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
	embeddedmigrations "github.com/terraincognita07/myritu/migrations"
	"gorm.io/gorm"
)

func applyEmbeddedMigrations(ctx context.Context, database *gorm.DB) error {
	sqlDB, err := database.DB()
	if err != nil {
		return fmt.Errorf("unwrap sql db: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, sqlDB, embeddedmigrations.Files)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	for _, result := range results {
		slog.Debug("applied migration",
			"component", "migrations",
			"version", result.Source.Version,
			"duration", result.Duration,
		)
	}
	return nil
}
