package config

const (
	defaultStateDir  = "~/.local/share/flowlist"
	defaultLogDir    = "~/.local/share/flowlist/logs"
	defaultExportDir = "~/flowlist-exports"

	defaultLLMBaseURL        = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel          = "google/gemini-3-flash-preview"
	defaultLLMReferer        = "https://github.com/flowlist/flowlist"
	defaultLLMTitle          = "flowlist"
	defaultLLMTimeoutSeconds = 60

	defaultBatchSize         = 30
	defaultParallel          = 5
	defaultGroupDelayMS      = 500
	defaultClassifyTemp      = 0.2
	defaultRetryAttempts     = 3
	defaultClassifyRetryStep = 5

	defaultDeconstructTemp      = 0.4
	defaultDeconstructRetryStep = 3
	defaultDeconstructMaxSteps  = 3

	defaultUnsortedDir = "Unsorted"

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// DefaultArchiveIgnore lists the junk paths skipped on archive import.
var DefaultArchiveIgnore = []string{"__MACOSX/**", "**/.DS_Store", "**/._*"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir:  defaultStateDir,
			LogDir:    defaultLogDir,
			ExportDir: defaultExportDir,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Classification: Classification{
			BatchSize:        defaultBatchSize,
			Parallel:         defaultParallel,
			GroupDelayMS:     defaultGroupDelayMS,
			Temperature:      defaultClassifyTemp,
			RetryAttempts:    defaultRetryAttempts,
			RetryStepSeconds: defaultClassifyRetryStep,
		},
		Deconstruction: Deconstruction{
			Temperature:      defaultDeconstructTemp,
			RetryAttempts:    defaultRetryAttempts,
			RetryStepSeconds: defaultDeconstructRetryStep,
			MaxSteps:         defaultDeconstructMaxSteps,
		},
		Archive: Archive{
			UnsortedDir:   defaultUnsortedDir,
			IncludeCounts: true,
			Ignore:        append([]string(nil), DefaultArchiveIgnore...),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
