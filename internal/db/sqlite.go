package db

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	busyTimeout        = 5 * time.Second
	slowQueryThreshold = time.Second
)

// OpenSQLite opens (creating when needed) the single-file store and brings
// its schema up to date.
func OpenSQLite(ctx context.Context, dbPath string) (*gorm.DB, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("database path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	database, err := gorm.Open(sqlite.Open(sqliteDSN(dbPath)), &gorm.Config{Logger: newQueryLogger()})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", dbPath, err)
	}

	if err := applyEmbeddedMigrations(ctx, database); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply embedded migrations: %w", err)
	}
	return database, nil
}

// sqliteDSN turns on foreign keys (account deletion relies on them), WAL so
// readers do not block the chat writer, and a busy timeout for the CLI
// running next to the server.
func sqliteDSN(dbPath string) string {
	pragmas := url.Values{}
	pragmas.Add("_pragma", "foreign_keys(1)")
	pragmas.Add("_pragma", "journal_mode(WAL)")
	pragmas.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeout.Milliseconds()))
	return dbPath + "?" + pragmas.Encode()
}

func newQueryLogger() gormlogger.Interface {
	return gormlogger.New(
		slog.NewLogLogger(slog.Default().Handler().WithAttrs([]slog.Attr{slog.String("component", "gorm")}), slog.LevelWarn),
		gormlogger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
}
