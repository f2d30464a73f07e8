// Package gemini generates message suggestions through the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ErlanBelekov/mystery-threads/internal/domain"
	"github.com/ErlanBelekov/mystery-threads/internal/metrics"
	"google.golang.org/genai"
)

const errNotConfigured = "suggestion provider is not configured"

type Config struct {
	APIKey string
	Model  string
	// BaseURL overrides the API endpoint. Empty means the SDK default.
	BaseURL string
}

type Client struct {
	client *genai.Client
	model  string
	gen    *genai.GenerateContentConfig
	logger *slog.Logger
}

// New builds a client. An empty API key is not an error: the returned client
// fails every call with a 500 UpstreamError instead.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	c := &Client{
		model:  cfg.Model,
		logger: logger.With("component", "gemini"),
		gen: &genai.GenerateContentConfig{
			Temperature:     genai.Ptr[float32](1.2),
			TopK:            genai.Ptr[float32](40),
			TopP:            genai.Ptr[float32](1),
			MaxOutputTokens: 256,
		},
	}
	if cfg.APIKey == "" {
		c.logger.Warn("GEMINI_API_KEY not set, suggestions are disabled")
		return c, nil
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	c.client = client
	return c, nil
}

// Generate sends a single prompt and returns the concatenated text of the
// first candidate.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.client == nil {
		return "", &domain.UpstreamError{Status: http.StatusInternalServerError, Message: errNotConfigured}
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), c.gen)
	if err != nil {
		metrics.SuggestionDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		upErr := toUpstream(err)
		c.logger.WarnContext(ctx, "generate content failed", "status", upErr.Status, "error", err)
		return "", upErr
	}
	metrics.SuggestionDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())

	return resp.Text(), nil
}

func toUpstream(err error) *domain.UpstreamError {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &domain.UpstreamError{Status: apiErr.Code, Message: apiErr.Message, Err: err}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return &domain.UpstreamError{Status: apiErrPtr.Code, Message: apiErrPtr.Message, Err: err}
	}
	return &domain.UpstreamError{Message: err.Error(), Err: err}
}
