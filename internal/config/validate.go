package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/bmatcuk/doublestar/v4"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateClassification(); err != nil {
		return err
	}
	if err := c.validateDeconstruction(); err != nil {
		return err
	}
	if err := c.validateArchive(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateLLM() error {
	if c.LLM.TimeoutSeconds <= 0 {
		return errors.New("llm.timeout_seconds must be positive")
	}
	u, err := url.Parse(c.LLM.BaseURL)
	if err != nil {
		return fmt.Errorf("llm.base_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("llm.base_url must be an absolute http(s) URL, got %q", c.LLM.BaseURL)
	}
	return nil
}

func (c *Config) validateClassification() error {
	if c.Classification.BatchSize <= 0 {
		return errors.New("classification.batch_size must be positive")
	}
	if c.Classification.Parallel <= 0 {
		return errors.New("classification.parallel must be positive")
	}
	if c.Classification.GroupDelayMS < 0 {
		return errors.New("classification.group_delay_ms must be zero or positive")
	}
	if c.Classification.Temperature < 0 || c.Classification.Temperature > 2 {
		return errors.New("classification.temperature must be between 0 and 2")
	}
	if c.Classification.RetryAttempts <= 0 {
		return errors.New("classification.retry_attempts must be positive")
	}
	if c.Classification.RetryStepSeconds < 0 {
		return errors.New("classification.retry_step_seconds must be zero or positive")
	}
	return nil
}

func (c *Config) validateDeconstruction() error {
	if c.Deconstruction.Temperature < 0 || c.Deconstruction.Temperature > 2 {
		return errors.New("deconstruction.temperature must be between 0 and 2")
	}
	if c.Deconstruction.RetryAttempts <= 0 {
		return errors.New("deconstruction.retry_attempts must be positive")
	}
	if c.Deconstruction.RetryStepSeconds < 0 {
		return errors.New("deconstruction.retry_step_seconds must be zero or positive")
	}
	if c.Deconstruction.MaxSteps <= 0 {
		return errors.New("deconstruction.max_steps must be positive")
	}
	return nil
}

func (c *Config) validateArchive() error {
	for _, pattern := range c.Archive.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("archive.ignore: invalid pattern %q", pattern)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
