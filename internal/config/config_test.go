package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"flowlist/internal/config"
)

func TestLoadDefaultConfigUsesEnvKeyAndExpandsPaths(t *testing.T) {
	t.Setenv("FLOWLIST_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "router-key")
	t.Setenv("FLOWLIST_CONFIG", "")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "flowlist", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(tempHome, ".local", "share", "flowlist"); cfg.Paths.StateDir != want {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, want)
	}
	if cfg.StatePath() != filepath.Join(cfg.Paths.StateDir, "flowlist.db") {
		t.Fatalf("unexpected state path %q", cfg.StatePath())
	}
	if cfg.LLM.APIKey != "router-key" {
		t.Fatalf("expected key from OPENROUTER_API_KEY, got %q", cfg.LLM.APIKey)
	}
	if cfg.Classification.BatchSize != 30 || cfg.Classification.Parallel != 5 {
		t.Fatalf("unexpected classification defaults: %+v", cfg.Classification)
	}
	if cfg.GroupDelay() != 500*time.Millisecond {
		t.Fatalf("unexpected group delay %s", cfg.GroupDelay())
	}
	if len(cfg.Archive.Ignore) != 3 {
		t.Fatalf("expected default ignore globs, got %v", cfg.Archive.Ignore)
	}
}

func TestLoadPrefersFlowlistKeyOverRouterKey(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FLOWLIST_API_KEY", "primary")
	t.Setenv("OPENROUTER_API_KEY", "secondary")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LLM.APIKey != "primary" {
		t.Fatalf("expected FLOWLIST_API_KEY to win, got %q", cfg.LLM.APIKey)
	}
}

func TestLoadMissingKeyIsNotAnError(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FLOWLIST_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LLM.APIKey != "" {
		t.Fatalf("expected empty key, got %q", cfg.LLM.APIKey)
	}
}

func TestLoadCustomConfigFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("FLOWLIST_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `
[paths]
state_dir = "~/flow-state"

[llm]
api_key = "file-key"
model = "demo/model"

[classification]
batch_size = 10
parallel = 2

[deconstruction]
model = "other/model"

[archive]
ignore = ["**/Thumbs.db", "**/Thumbs.db", " "]

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected existing config at %q, got %q exists=%v", configPath, resolved, exists)
	}
	if cfg.Paths.StateDir != filepath.Join(tempHome, "flow-state") {
		t.Fatalf("unexpected state dir %q", cfg.Paths.StateDir)
	}
	if cfg.Classification.BatchSize != 10 || cfg.Classification.Parallel != 2 {
		t.Fatalf("unexpected classification settings %+v", cfg.Classification)
	}
	if len(cfg.Archive.Ignore) != 1 || cfg.Archive.Ignore[0] != "**/Thumbs.db" {
		t.Fatalf("expected deduplicated ignore list, got %v", cfg.Archive.Ignore)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected lowercased logging settings, got %+v", cfg.Logging)
	}

	classify := cfg.ClassificationLLM()
	if classify.APIKey != "file-key" || classify.Model != "demo/model" {
		t.Fatalf("unexpected classification llm %+v", classify)
	}
	if classify.Temperature != 0.2 || classify.RetryStep != 5*time.Second || classify.RetryAttempts != 3 {
		t.Fatalf("unexpected classification tuning %+v", classify)
	}
	deconstruct := cfg.DeconstructionLLM()
	if deconstruct.Model != "other/model" {
		t.Fatalf("expected model override, got %q", deconstruct.Model)
	}
	if deconstruct.Temperature != 0.4 || deconstruct.RetryStep != 3*time.Second {
		t.Fatalf("unexpected deconstruction tuning %+v", deconstruct)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantKey string
	}{
		{"parallel", func(c *config.Config) { c.Classification.Parallel = 0 }, "classification.parallel"},
		{"batch size", func(c *config.Config) { c.Classification.BatchSize = -1 }, "classification.batch_size"},
		{"group delay", func(c *config.Config) { c.Classification.GroupDelayMS = -5 }, "classification.group_delay_ms"},
		{"max steps", func(c *config.Config) { c.Deconstruction.MaxSteps = 0 }, "deconstruction.max_steps"},
		{"ignore glob", func(c *config.Config) { c.Archive.Ignore = []string{"[unterminated"} }, "archive.ignore"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"base url scheme", func(c *config.Config) { c.LLM.BaseURL = "openrouter.ai/api/v1/chat/completions" }, "llm.base_url"},
		{"base url ftp", func(c *config.Config) { c.LLM.BaseURL = "ftp://openrouter.ai/api" }, "llm.base_url"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantKey) {
				t.Fatalf("expected error naming %s, got %v", tc.wantKey, err)
			}
		})
	}
}

func TestSampleConfigParsesAndValidates(t *testing.T) {
	cfg := config.Default()
	if err := toml.Unmarshal([]byte(config.SampleConfig()), &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config does not validate: %v", err)
	}
	if cfg.Classification.Parallel != config.Default().Classification.Parallel {
		t.Fatalf("sample config drifted from defaults: parallel=%d", cfg.Classification.Parallel)
	}
}

func TestWriteSampleRefusesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	written, err := config.WriteSample(path, false)
	if err != nil {
		t.Fatalf("WriteSample returned error: %v", err)
	}
	if written != path {
		t.Fatalf("expected %s, got %s", path, written)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[classification]") {
		t.Fatal("expected classification section in sample")
	}

	if _, err := config.WriteSample(path, false); !errors.Is(err, config.ErrConfigExists) {
		t.Fatalf("expected ErrConfigExists, got %v", err)
	}
	if _, err := config.WriteSample(path, true); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
}

func TestWriteSampleDefaultsToUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	written, err := config.WriteSample("", false)
	if err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	if written != filepath.Join(home, ".config", "flowlist", "config.toml") {
		t.Fatalf("unexpected default target %s", written)
	}
}

func TestLoadUsesConfigEnvVar(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "env.toml")
	if err := os.WriteFile(path, []byte("[classification]\nparallel = 2\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("FLOWLIST_CONFIG", path)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != path || !exists {
		t.Fatalf("expected env config %s, got %s (exists=%v)", path, resolved, exists)
	}
	if cfg.Classification.Parallel != 2 {
		t.Fatalf("expected parallel 2, got %d", cfg.Classification.Parallel)
	}
}

func TestExpandPathHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := config.ExpandPath("~/exports")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "exports") {
		t.Fatalf("unexpected path %q", got)
	}
}
