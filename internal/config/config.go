package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Paths contains directory configuration.
type Paths struct {
	StateDir  string `toml:"state_dir"`
	LogDir    string `toml:"log_dir"`
	ExportDir string `toml:"export_dir"`
}

// LLM contains shared completion service connection settings.
type LLM struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	Referer        string `toml:"referer"`
	Title          string `toml:"title"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Classification tunes how dumped lines are sorted into buckets.
type Classification struct {
	BatchSize        int     `toml:"batch_size"`
	Parallel         int     `toml:"parallel"`
	GroupDelayMS     int     `toml:"group_delay_ms"`
	Temperature      float64 `toml:"temperature"`
	RetryAttempts    int     `toml:"retry_attempts"`
	RetryStepSeconds int     `toml:"retry_step_seconds"`
}

// Deconstruction tunes task breakdown requests.
type Deconstruction struct {
	Temperature      float64 `toml:"temperature"`
	RetryAttempts    int     `toml:"retry_attempts"`
	RetryStepSeconds int     `toml:"retry_step_seconds"`
	MaxSteps         int     `toml:"max_steps"`
	// Model overrides [llm] model when set.
	Model string `toml:"model"`
}

// Archive controls zip export and import.
type Archive struct {
	UnsortedDir   string   `toml:"unsorted_dir"`
	IncludeCounts bool     `toml:"include_counts"`
	Ignore        []string `toml:"ignore"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for flowlist.
//
// Configuration sections by subsystem:
//   - Paths: state, log and export directories
//   - LLM: completion service connection shared by both prompt kinds
//   - Classification: batching, concurrency and retry for bucket sorting
//   - Deconstruction: retry and shape limits for task breakdown
//   - Archive: zip layout and import filters
//   - Logging: log format and level
type Config struct {
	Paths          Paths          `toml:"paths"`
	LLM            LLM            `toml:"llm"`
	Classification Classification `toml:"classification"`
	Deconstruction Deconstruction `toml:"deconstruction"`
	Archive        Archive        `toml:"archive"`
	Logging        Logging        `toml:"logging"`
}

const (
	stateDBName  = "flowlist.db"
	lockFileName = "flowlist.lock"
)

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// StatePath returns the SQLite database holding the folder snapshot.
func (c *Config) StatePath() string {
	return filepath.Join(c.Paths.StateDir, stateDBName)
}

// LockPath returns the single-writer lock file next to the state database.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, lockFileName)
}

// GroupDelay returns the pause between classification groups.
func (c *Config) GroupDelay() time.Duration {
	return time.Duration(c.Classification.GroupDelayMS) * time.Millisecond
}

// LLMConfig contains the connection and retry settings for one prompt kind.
type LLMConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	Referer        string
	Title          string
	TimeoutSeconds int
	Temperature    float64
	RetryAttempts  int
	RetryStep      time.Duration
}

// GetLLM returns the shared connection settings.
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		APIKey:         strings.TrimSpace(c.LLM.APIKey),
		BaseURL:        strings.TrimSpace(c.LLM.BaseURL),
		Model:          strings.TrimSpace(c.LLM.Model),
		Referer:        strings.TrimSpace(c.LLM.Referer),
		Title:          strings.TrimSpace(c.LLM.Title),
		TimeoutSeconds: c.LLM.TimeoutSeconds,
	}
}

// ClassificationLLM returns the settings used for bucket sorting.
func (c *Config) ClassificationLLM() LLMConfig {
	cfg := c.GetLLM()
	cfg.Temperature = c.Classification.Temperature
	cfg.RetryAttempts = c.Classification.RetryAttempts
	cfg.RetryStep = time.Duration(c.Classification.RetryStepSeconds) * time.Second
	return cfg
}

// DeconstructionLLM returns the settings used for task breakdown.
// Falls back to [llm] model when no override is configured.
func (c *Config) DeconstructionLLM() LLMConfig {
	cfg := c.GetLLM()
	if model := strings.TrimSpace(c.Deconstruction.Model); model != "" {
		cfg.Model = model
	}
	cfg.Temperature = c.Deconstruction.Temperature
	cfg.RetryAttempts = c.Deconstruction.RetryAttempts
	cfg.RetryStep = time.Duration(c.Deconstruction.RetryStepSeconds) * time.Second
	return cfg
}
