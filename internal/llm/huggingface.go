package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	huggingFaceBaseURL      = "https://api-inference.huggingface.co/models/"
	huggingFaceMaxNewTokens = 450
	defaultRequestTimeout   = 60 * time.Second
	assistantTurnMarker     = "<|assistant|>"
)

type huggingFaceParameters struct {
	MaxNewTokens      int     `json:"max_new_tokens"`
	ReturnFullText    bool    `json:"return_full_text"`
	Temperature       float64 `json:"temperature"`
	TopP              float64 `json:"top_p"`
	DoSample          bool    `json:"do_sample"`
	RepetitionPenalty float64 `json:"repetition_penalty"`
}

type huggingFaceRequest struct {
	Inputs     string                `json:"inputs"`
	Parameters huggingFaceParameters `json:"parameters"`
}

type huggingFaceGeneration struct {
	GeneratedText *string `json:"generated_text"`
}

// HuggingFaceClient calls the hosted inference API for zephyr-style chat models.
type HuggingFaceClient struct {
	logger   *slog.Logger
	endpoint string
	token    string
	timeout  time.Duration
	retry    retryPolicy
}

func NewHuggingFaceClient(cfg Config, logger *slog.Logger) (*HuggingFaceClient, error) {
	if strings.TrimSpace(cfg.APIToken) == "" {
		return nil, fmt.Errorf("%w: hugging face api token cannot be empty", ErrInvalidConfig)
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultHuggingFaceModel
	}
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = huggingFaceBaseURL + model
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	return &HuggingFaceClient{
		logger:   logger.With("component", "llm", "provider", ProviderHuggingFace, "model", model),
		endpoint: endpoint,
		token:    cfg.APIToken,
		timeout:  timeout,
		retry:    newRetryPolicy(cfg, logger),
	}, nil
}

func (client *HuggingFaceClient) Generate(ctx context.Context, prompt Prompt) (string, error) {
	payload := huggingFaceRequest{
		Inputs: RenderZephyrPrompt(prompt),
		Parameters: huggingFaceParameters{
			MaxNewTokens:      huggingFaceMaxNewTokens,
			ReturnFullText:    false,
			Temperature:       0.7,
			TopP:              0.9,
			DoSample:          true,
			RepetitionPenalty: 1.1,
		},
	}
	return client.retry.run(ctx, client.logger, func(ctx context.Context) (string, error) {
		return client.post(ctx, payload)
	})
}

type agentResult struct {
	status int
	body   []byte
	errs   []error
}

func (client *HuggingFaceClient) post(ctx context.Context, payload huggingFaceRequest) (string, error) {
	agent := fiber.Post(client.endpoint).
		Set(fiber.HeaderAuthorization, "Bearer "+client.token).
		QueryString("wait_for_model=true").
		JSON(payload).
		Timeout(client.timeout)
	if err := agent.Parse(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	done := make(chan agentResult, 1)
	go func() {
		status, body, errs := agent.Bytes()
		done <- agentResult{status: status, body: body, errs: errs}
	}()

	var result agentResult
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %v", ErrTransient, ctx.Err())
	case result = <-done:
	}

	if len(result.errs) > 0 {
		return "", fmt.Errorf("%w: %v", ErrTransient, errors.Join(result.errs...))
	}
	switch {
	case result.status == http.StatusTooManyRequests || result.status >= http.StatusInternalServerError:
		return "", fmt.Errorf("%w: status %d", ErrTransient, result.status)
	case result.status >= http.StatusBadRequest:
		return "", fmt.Errorf("%w: status %d", ErrUpstream, result.status)
	}
	return parseHuggingFaceReply(result.body)
}

// parseHuggingFaceReply accepts either a list of generations or a single
// object and returns the first generated_text.
func parseHuggingFaceReply(body []byte) (string, error) {
	var list []huggingFaceGeneration
	if err := json.Unmarshal(body, &list); err == nil {
		if len(list) > 0 && list[0].GeneratedText != nil {
			return *list[0].GeneratedText, nil
		}
		return "", fmt.Errorf("%w: no generated_text in list reply", ErrInvalidResponse)
	}

	var single huggingFaceGeneration
	if err := json.Unmarshal(body, &single); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if single.GeneratedText == nil {
		return "", fmt.Errorf("%w: no generated_text in reply", ErrInvalidResponse)
	}
	return *single.GeneratedText, nil
}

// RenderZephyrPrompt lays the prompt out in the zephyr chat template with the
// assistant turn left open.
func RenderZephyrPrompt(prompt Prompt) string {
	var builder strings.Builder
	builder.WriteString("<|system|>\n")
	builder.WriteString(prompt.System)
	builder.WriteString("\n\nUser's Context:\n")
	builder.WriteString(prompt.Context)
	builder.WriteString("</s>\n<|user|>\n")
	builder.WriteString("My question is: \"" + prompt.Question + "\"</s>\n")
	builder.WriteString(assistantTurnMarker + "\n")
	return builder.String()
}

// ExtractAssistantReply keeps the text after the last assistant marker, trimmed.
func ExtractAssistantReply(raw string) string {
	reply := strings.TrimSpace(raw)
	if index := strings.LastIndex(reply, assistantTurnMarker); index >= 0 {
		reply = strings.TrimSpace(reply[index+len(assistantTurnMarker):])
	}
	return reply
}
