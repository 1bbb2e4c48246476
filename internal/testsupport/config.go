package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"flowlist/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The directories exist on return and no retry ever sleeps longer than a
// millisecond.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.LLM.APIKey = "test"
	cfgVal.LLM.BaseURL = "http://127.0.0.1:1"
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.ExportDir = filepath.Join(base, "exports")
	cfgVal.Classification.GroupDelayMS = 0
	cfgVal.Classification.RetryStepSeconds = 0
	cfgVal.Deconstruction.RetryStepSeconds = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	if err := os.MkdirAll(builder.cfg.Paths.ExportDir, 0o755); err != nil {
		t.Fatalf("create export dir: %v", err)
	}
	return builder.cfg
}

// WithAPIKey sets the completion service key. An empty key simulates an
// unconfigured install.
func WithAPIKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LLM.APIKey = key
	}
}

// WithLLMServer points the completion client at a fake server.
func WithLLMServer(server *LLMServer) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LLM.BaseURL = server.URL()
	}
}

// WithParallel overrides the classification group size and batch size.
func WithParallel(parallel, batchSize int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Classification.Parallel = parallel
		b.cfg.Classification.BatchSize = batchSize
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
