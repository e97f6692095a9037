package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/terraincognita07/myritu/internal/services"
)

var ErrNotInteractive = errors.New("--prompt needs an interactive terminal")

// promptNewPassword asks twice with echo off and applies the account password
// policy before anything touches the database.
func promptNewPassword(stdin *os.File, stdout io.Writer) (string, error) {
	if stdin == nil {
		return "", ErrNotInteractive
	}
	reader := bufio.NewReader(stdin)

	first, err := readHiddenLine(stdin, reader, stdout, "New password: ")
	if err != nil {
		return "", err
	}
	if err := services.ValidatePasswordStrength(first); err != nil {
		return "", fmt.Errorf("password must be at least %d characters and mix letters and digits", services.MinPasswordLength)
	}
	second, err := readHiddenLine(stdin, reader, stdout, "Repeat password: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errors.New("passwords do not match")
	}
	return first, nil
}

func readHiddenLine(stdin *os.File, reader *bufio.Reader, stdout io.Writer, label string) (string, error) {
	restore, err := disableEcho(stdin)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotInteractive, err)
	}
	defer restore()

	fmt.Fprint(stdout, label)
	line, err := reader.ReadString('\n')
	// The newline typed by the user was not echoed.
	fmt.Fprintln(stdout)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
