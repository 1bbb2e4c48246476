package classify

import (
	"context"
	"fmt"
	"log/slog"

	"flowlist/internal/logging"
	"flowlist/internal/services/llm"
)

const (
	defaultTemperature = 0.2
	operation          = "classify"
)

// Completer issues one chat completion. *llm.Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, op string, req llm.Request) (string, error)
}

// Client classifies batches of task lines.
type Client struct {
	completer   Completer
	temperature float64
	logger      *slog.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithTemperature overrides the sampling temperature.
func WithTemperature(t float64) Option {
	return func(c *Client) {
		c.temperature = t
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient wraps a completer.
func NewClient(completer Completer, opts ...Option) *Client {
	c := &Client{
		completer:   completer,
		temperature: defaultTemperature,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, "classify")
	return c
}

// Classify assigns each line to an existing or new bucket. Errors from the
// completion service are returned unchanged so callers can match
// llm.ErrNotConfigured and llm.ErrMaxRetries.
func (c *Client) Classify(ctx context.Context, lines, existingBuckets []string) ([]Assignment, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	logger := logging.WithContext(ctx, c.logger)

	content, err := c.completer.Complete(ctx, operation, llm.Request{
		System:      SystemPrompt,
		User:        BuildUserPrompt(lines, existingBuckets),
		Temperature: c.temperature,
	})
	if err != nil {
		return nil, err
	}

	assignments, err := ParseAssignments(content)
	if err != nil {
		logger.Warn("classification response unparseable",
			logging.Event("classify_unparseable"),
			logging.String("response_snippet", llm.SummarizePayload(content)),
		)
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	logger.Debug("batch classified",
		logging.Int("lines", len(lines)),
		logging.Int("assignments", len(assignments)),
	)
	return assignments, nil
}
