package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/terraincognita07/myritu/internal/db"
	"github.com/terraincognita07/myritu/internal/security"
	"github.com/terraincognita07/myritu/internal/services"
)

const temporaryPasswordLength = 12

type ResetPasswordOptions struct {
	DBPath   string
	Username string
	// Prompt reads the new password from Stdin without echo instead of
	// generating a temporary one.
	Prompt bool
	Stdin  *os.File
	Stdout io.Writer
}

func RunResetPasswordCommand(ctx context.Context, options ResetPasswordOptions) error {
	if services.NormalizeUsername(options.Username) == "" {
		return errors.New("username is required")
	}
	stdout := options.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	password, generated, err := resolveNewPassword(options, stdout)
	if err != nil {
		return err
	}

	database, err := db.OpenSQLite(ctx, options.DBPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer sqlDB.Close()

	repositories := db.NewRepositories(database)
	authService := services.NewAuthService(repositories.Users, db.IsUniqueViolation)
	if err := authService.ResetPassword(options.Username, password); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return fmt.Errorf("user %s not found", services.NormalizeUsername(options.Username))
		}
		if errors.Is(err, services.ErrWeakPassword) {
			return fmt.Errorf("password must be at least %d characters and mix letters and digits", services.MinPasswordLength)
		}
		return err
	}

	fmt.Fprintln(stdout, "Password reset successful")
	if generated {
		fmt.Fprintf(stdout, "Temporary password: %s\n", password)
		fmt.Fprintln(stdout, "Share it over a trusted channel and change it after signing in.")
	}
	return nil
}

func resolveNewPassword(options ResetPasswordOptions, stdout io.Writer) (string, bool, error) {
	if !options.Prompt {
		password, err := security.TemporaryPassword(temporaryPasswordLength)
		if err != nil {
			return "", false, fmt.Errorf("generate temporary password: %w", err)
		}
		return password, true, nil
	}

	stdin := options.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	password, err := promptNewPassword(stdin, stdout)
	return password, false, err
}
