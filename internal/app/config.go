package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/shadergen/internal/config"
)

// Config holds everything an App instance needs.
type Config struct {
	// ConfigPaths are job files or directories of job files. Ignored when
	// Jobs is set.
	ConfigPaths []string
	// Jobs are ad-hoc jobs built from command line flags.
	Jobs []*config.Job
	// Root overrides the template root of the job files.
	Root string

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.ConfigPaths) == 0 && len(cfg.Jobs) == 0 {
		return nil, errors.New("either a job file or at least one ad-hoc job is required")
	}

	switch strings.ToLower(cfg.LogFormat) {
	case "", "text", "json":
	default:
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	for _, job := range cfg.Jobs {
		if job.Source == "" || job.Output == "" {
			return nil, fmt.Errorf("job %q: source and output are required", job.Name)
		}
		if job.Preprocessor == "" {
			job.Preprocessor = config.DefaultPreprocessor
		}
	}
	return &cfg, nil
}
