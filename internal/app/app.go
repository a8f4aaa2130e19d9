package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/tequmsa/ankhaten/internal/ctxlog"
	"github.com/tequmsa/ankhaten/internal/loader"
	"github.com/tequmsa/ankhaten/internal/manifest"
	"github.com/tequmsa/ankhaten/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	config   *Config
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
func NewApp(outW io.Writer, cfg *Config) *App {
	logger := ctxlog.New(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Bind the default loaders before the manifest arrives so validation can
	// see the full kind set.
	reg := registry.New().
		Use(loader.NewYAML()).
		Use(loader.NewHTTP()).
		Use(loader.NewSocketIO()).
		Use(loader.NewFactory(coreFactories()))
	logger.Debug("Default loaders bound.", "kinds", reg.Kinds())

	m, err := manifest.LoadPath(ctx, cfg.ManifestPath)
	if err != nil {
		// A failure to load the manifest is a fatal startup error.
		panic(fmt.Errorf("failed to load manifest: %w", err))
	}
	reg.Replace(m.Components)
	logger.Info("Manifest loaded.", "path", cfg.ManifestPath, "components", reg.Count())

	// A kind without a loader is not fatal: materialization reports it
	// per-component. Surface it early anyway.
	if err := reg.Validate(ctx); err != nil {
		logger.Warn("Registry validation reported problems.", "error", err)
	}

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		config:   cfg,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
