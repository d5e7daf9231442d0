package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/iwgo/internal/ctxlog"
	"github.com/vk/iwgo/internal/registry"
	"github.com/vk/iwgo/internal/world"
	"github.com/vk/iwgo/internal/world/socketworld"
)

// ErrLoadFailures is returned by Validate when at least one template failed.
var ErrLoadFailures = errors.New("some templates failed to load")

// mirror is the remote side of a socket.io mirror world.
type mirror interface {
	socketworld.Emitter
	Close() error
}

// dialFunc opens a mirror connection.
type dialFunc func(ctx context.Context, url, namespace string) (mirror, error)

func dialSocket(ctx context.Context, url, namespace string) (mirror, error) {
	c, err := socketworld.Dial(ctx, url, namespace)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// App encapsulates the application's dependencies and configuration.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	palette  *world.Palette
	registry *registry.Registry
	dial     dialFunc
}

// NewApp builds an App. Results are written to outW and logs to logW.
func NewApp(outW, logW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	palette := world.DefaultPalette()
	if cfg.PalettePath != "" {
		p, err := world.LoadPalette(cfg.PalettePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load palette: %w", err)
		}
		palette = p
		logger.Debug("Palette loaded.", "path", cfg.PalettePath, "materials", len(p.Names()))
	}

	return &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		palette: palette,
		registry: registry.New(registry.Options{
			Materials:      palette,
			DisableFolding: cfg.DisableFolding,
		}),
		dial: dialSocket,
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// load fills the registry from the templates path.
func (a *App) load(ctx context.Context) (registry.LoadReport, error) {
	report, err := a.registry.LoadDir(ctx, a.config.TemplatesPath, a.config.Workers)
	if err != nil {
		return report, fmt.Errorf("failed to load templates: %w", err)
	}
	return report, nil
}

// output returns the writer for command results and a function closing it.
func (a *App) output() (io.Writer, func() error, error) {
	if a.config.Output == "" {
		return a.outW, func() error { return nil }, nil
	}
	f, err := os.Create(a.config.Output)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}

func (a *App) requireObject() error {
	if a.config.Object == "" {
		return errors.New("an object name is required")
	}
	return nil
}
