package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"flowlist/internal/logging"
)

const (
	defaultBaseURL       = "https://openrouter.ai/api/v1/chat/completions"
	defaultHTTPTimeout   = 60 * time.Second
	defaultRetryAttempts = 3
	defaultRetryStep     = 5 * time.Second
)

var (
	// ErrNotConfigured reports a missing API key or endpoint. It is never retried.
	ErrNotConfigured = errors.New("service not configured")
	// ErrMaxRetries reports that every attempt failed with a retriable error.
	ErrMaxRetries = errors.New("max retries exceeded")
	// ErrEmptyContent reports a successful response that carried no text.
	ErrEmptyContent = errors.New("empty completion content")
)

// Config captures the runtime settings required to talk to the completion service.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Referer        string
	Title          string
	TimeoutSeconds int
}

// Client wraps an OpenAI-compatible chat completion API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
	retry      retryPolicy
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetryMaxAttempts sets the total attempt count. Values below one mean a
// single attempt.
func WithRetryMaxAttempts(attempts int) Option {
	return func(c *Client) { c.retry.attempts = attempts }
}

// WithRetryStep sets the linear backoff step: the wait after attempt n is n*step.
func WithRetryStep(step time.Duration) Option {
	return func(c *Client) { c.retry.step = step }
}

// WithSleeper replaces the backoff timer. Tests use it to record waits.
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) { c.retry.sleeper = sleeper }
}

// WithLogger attaches a logger for retry diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient constructs a client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.Model = strings.TrimSpace(cfg.Model)
	cfg.Referer = strings.TrimSpace(cfg.Referer)
	cfg.Title = strings.TrimSpace(cfg.Title)
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}

	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.NewNop(),
		retry:      retryPolicy{attempts: defaultRetryAttempts, step: defaultRetryStep},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c != nil && c.cfg.APIKey != ""
}

// Request is a single JSON-mode chat completion.
type Request struct {
	System      string
	User        string
	Temperature float64
}

// Complete issues a JSON-mode chat completion and returns the raw text the
// model produced. Timeout-class failures are retried with linear backoff;
// every other failure is returned immediately.
func (c *Client) Complete(ctx context.Context, op string, req Request) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("%s: %w", op, ErrNotConfigured)
	}
	body, err := c.newChatRequest(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	attempts := c.retry.maxAttempts()
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		content, err := c.post(ctx, body)
		if err == nil {
			return content, nil
		}
		if !IsRetriable(ctx, err) {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		lastErr = err
		if attempt == attempts {
			break
		}
		delay := c.retry.delay(attempt)
		c.logger.Warn("completion request failed; retrying",
			logging.String("op", op),
			logging.Int("attempt", attempt),
			logging.Int("max_attempts", attempts),
			logging.Duration("delay", delay),
			logging.Error(err),
		)
		if err := c.retry.wait(ctx, delay); err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("%s: %w after %d attempts: %w", op, ErrMaxRetries, attempts, lastErr)
}

// HealthCheck issues a single fast request to verify the key and model.
func (c *Client) HealthCheck(ctx context.Context) error {
	content, err := c.Complete(ctx, "llm health", Request{
		System: "You must respond with JSON only.",
		User:   `Respond with {"ok":true}`,
	})
	if err != nil {
		return err
	}
	var parsed struct {
		OK bool `json:"ok"`
	}
	if err := DecodeLLMJSON(content, &parsed); err != nil {
		return fmt.Errorf("llm health: parse payload: %w", err)
	}
	if !parsed.OK {
		return errors.New("llm health: unexpected response")
	}
	return nil
}
