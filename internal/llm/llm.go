// Package llm talks to hosted language models for the chat assistant.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const (
	ProviderNone        = "none"
	ProviderHuggingFace = "huggingface"
	ProviderGemini      = "gemini"

	DefaultHuggingFaceModel = "HuggingFaceH4/zephyr-7b-beta"
	DefaultGeminiModel      = "gemini-2.0-flash"
)

var (
	// ErrTransient covers network failures, rate limits and 5xx answers.
	ErrTransient = errors.New("transient language model failure")
	// ErrUpstream is a non-retryable HTTP rejection from the provider.
	ErrUpstream        = errors.New("language model request rejected")
	ErrInvalidResponse = errors.New("invalid response from language model")
	ErrContentBlocked  = errors.New("content blocked by language model safety filters")
	ErrInvalidConfig   = errors.New("invalid language model configuration")
)

// Prompt is provider-neutral; each backend renders it in its own chat format.
type Prompt struct {
	System   string
	Context  string
	Question string
}

type Generator interface {
	Generate(ctx context.Context, prompt Prompt) (string, error)
}

type Config struct {
	Provider   string
	APIToken   string
	Model      string
	Endpoint   string
	MaxRetries int
	RetryDelay time.Duration
	Timeout    time.Duration
}

// New builds the configured backend. ProviderNone yields a nil Generator and
// no error.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (Generator, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Provider {
	case "", ProviderNone:
		return nil, nil
	case ProviderHuggingFace:
		client, err := NewHuggingFaceClient(cfg, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	case ProviderGemini:
		client, err := NewGeminiClient(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, cfg.Provider)
	}
}
