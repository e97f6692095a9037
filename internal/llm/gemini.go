package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

const geminiTemperature = 0.7

// GeminiClient answers chat prompts through the Gemini API.
type GeminiClient struct {
	logger  *slog.Logger
	models  geminiModels
	model   string
	timeout time.Duration
	retry   retryPolicy
}

// geminiModels is the slice of genai.Models the client uses.
type geminiModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

func NewGeminiClient(ctx context.Context, cfg Config, logger *slog.Logger) (*GeminiClient, error) {
	if strings.TrimSpace(cfg.APIToken) == "" {
		return nil, fmt.Errorf("%w: gemini api key cannot be empty", ErrInvalidConfig)
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIToken,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create gemini client: %v", ErrInvalidConfig, err)
	}
	return newGeminiClient(client.Models, model, cfg, logger), nil
}

func newGeminiClient(models geminiModels, model string, cfg Config, logger *slog.Logger) *GeminiClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &GeminiClient{
		logger:  logger.With("component", "llm", "provider", ProviderGemini, "model", model),
		models:  models,
		model:   model,
		timeout: timeout,
		retry:   newRetryPolicy(cfg, logger),
	}
}

func (client *GeminiClient) Generate(ctx context.Context, prompt Prompt) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](geminiTemperature),
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: prompt.System + "\n\nUser's Context:\n" + prompt.Context}},
		},
	}
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: "My question is: \"" + prompt.Question + "\""}},
	}}

	return client.retry.run(ctx, client.logger, func(ctx context.Context) (string, error) {
		callCtx, cancel := context.WithTimeout(ctx, client.timeout)
		defer cancel()

		response, err := client.models.GenerateContent(callCtx, client.model, contents, config)
		if err != nil {
			return "", classifyGeminiError(err)
		}
		return geminiReplyText(response)
	})
}

func geminiReplyText(response *genai.GenerateContentResponse) (string, error) {
	switch {
	case response == nil:
		return "", fmt.Errorf("%w: nil response", ErrInvalidResponse)
	case len(response.Candidates) == 0:
		return "", fmt.Errorf("%w: no candidates", ErrInvalidResponse)
	case response.Candidates[0].FinishReason == genai.FinishReasonSafety:
		return "", ErrContentBlocked
	case response.Candidates[0].Content == nil:
		return "", fmt.Errorf("%w: empty candidate content", ErrInvalidResponse)
	}

	var text strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}
	return text.String(), nil
}

func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError {
			return fmt.Errorf("%w: %v", ErrTransient, err)
		}
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return fmt.Errorf("%w: %v", ErrTransient, err)
}
