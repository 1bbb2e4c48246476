package llm

import (
	"log/slog"

	"flowlist/internal/config"
)

// FromConfig builds a client from one prompt kind's settings. Extra options
// are applied after the configured retry policy.
func FromConfig(cfg config.LLMConfig, logger *slog.Logger, opts ...Option) *Client {
	base := []Option{
		WithLogger(logger),
		WithRetryMaxAttempts(cfg.RetryAttempts),
		WithRetryStep(cfg.RetryStep),
	}
	return NewClient(Config{
		APIKey:         cfg.APIKey,
		BaseURL:        cfg.BaseURL,
		Model:          cfg.Model,
		Referer:        cfg.Referer,
		Title:          cfg.Title,
		TimeoutSeconds: cfg.TimeoutSeconds,
	}, append(base, opts...)...)
}
