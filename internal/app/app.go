package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/shadergen/internal/config"
	"github.com/specialistvlad/shadergen/internal/ctxlog"
	"github.com/specialistvlad/shadergen/internal/registry"
)

// App encapsulates the application's dependencies and configuration.
type App struct {
	logger   *slog.Logger
	registry *registry.Registry
	model    *config.Model
}

// NewApp builds an App: it configures logging, loads the job files through
// loader (unless cfg carries ad-hoc jobs) and registers modules. Without
// modules the built-in preprocessors are registered.
func NewApp(logW io.Writer, cfg *Config, loader config.Loader, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model := &config.Model{Jobs: cfg.Jobs}
	if len(cfg.Jobs) == 0 {
		loaded, err := loader.Load(ctx, cfg.ConfigPaths...)
		if err != nil {
			return nil, fmt.Errorf("failed to load job files: %w", err)
		}
		model = loaded
	}
	if cfg.Root != "" {
		model.Settings.Root = cfg.Root
	}
	logger.Debug("Configuration loaded.", "jobs", len(model.Jobs), "root", model.Settings.Root)

	if len(modules) == 0 {
		modules = coreModules
	}
	reg := registry.New(modules...)
	logger.Debug("Modules registered.", "preprocessors", reg.Names())

	for _, job := range model.Jobs {
		if _, err := reg.Lookup(job.Preprocessor); err != nil {
			return nil, fmt.Errorf("job %q: %w", job.Name, err)
		}
	}

	return &App{logger: logger, registry: reg, model: model}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Jobs returns the jobs the App will run.
func (a *App) Jobs() []*config.Job {
	return a.model.Jobs
}
