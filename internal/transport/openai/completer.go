// Package openai implements the language model collaborator against any
// OpenAI-compatible chat completion endpoint.
package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kalder-cloud/reagent/internal/domain"
	"github.com/kalder-cloud/reagent/internal/metrics"
)

// formatGuard is appended to every prompt to keep small models on the
// two-line Thought/Action format.
const formatGuard = "You are a helpful ReAct agent. Respond with EXACTLY two lines:\n" +
	"Thought: <one concise sentence>\n" +
	"Action: <ONE tool call ONLY, either search[...] OR finish[...]>\n" +
	"Do NOT combine search and finish in the same line.\n"

// Completer obtains completions from an OpenAI-compatible chat API.
type Completer struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	logger      *zap.Logger
}

// Config holds the completion provider settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Logger      *zap.Logger
}

// NewCompleter creates an OpenAI-compatible completion provider.
func NewCompleter(cfg *Config) *Completer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Completer{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: float32(cfg.Temperature),
		logger:      cfg.Logger,
	}
}

// Complete implements agent.Completer. The raw completion is normalized to
// the canonical two-line Thought/Action form before it reaches the loop.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt + "\n\n" + formatGuard},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.ModelRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return "", parseAPIError(err)
	}
	if len(resp.Choices) == 0 {
		metrics.ModelRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrModelUnavailable)
	}

	metrics.ModelRequestsTotal.WithLabelValues(c.model, "success").Inc()
	metrics.ModelRequestDuration.WithLabelValues(c.model).Observe(duration.Seconds())

	out := postprocessTwoLines(resp.Choices[0].Message.Content)
	c.logger.Debug("model completion",
		zap.Duration("latency", duration),
		zap.Int("completion_len", len(out)),
	)
	return out, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Completer) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrModelUnavailable for transport
// status mapping.
func parseAPIError(err error) error {
	wrap := domain.ErrModelUnavailable

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("completion API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("completion API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("completion request failed: %w", wrap)
}
