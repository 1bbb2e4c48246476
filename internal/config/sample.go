package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"flowlist/internal/fileutil"
)

//go:embed sample_config.toml
var sampleConfig string

// ErrConfigExists is returned by WriteSample when the target is already present.
var ErrConfigExists = errors.New("config file already exists")

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// WriteSample writes the sample configuration to path, or to the user default
// location when path is empty, and returns the file it wrote.
func WriteSample(path string, overwrite bool) (string, error) {
	target := defaultConfigPath
	if strings.TrimSpace(path) != "" {
		target = path
	}
	target, err := expandPath(target)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}

	if !overwrite {
		_, statErr := os.Stat(target)
		switch {
		case statErr == nil:
			return "", fmt.Errorf("%w at %s (use --overwrite to replace it)", ErrConfigExists, target)
		case !errors.Is(statErr, fs.ErrNotExist):
			return "", fmt.Errorf("check config path: %w", statErr)
		}
	}

	if _, err := fileutil.WriteAtomic(target, strings.NewReader(sampleConfig), 0o644); err != nil {
		return "", fmt.Errorf("write sample config: %w", err)
	}
	return target, nil
}
