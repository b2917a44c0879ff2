package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/paramkit/internal/ctxlog"
	"github.com/specialistvlad/paramkit/internal/registry"
	"github.com/specialistvlad/paramkit/internal/schema"
)

// ErrUnknownSchema is returned when an operation names a schema the
// registry does not hold.
var ErrUnknownSchema = errors.New("unknown schema")

// App encapsulates the application's dependencies and configuration.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	config   *Config
}

// NewApp is the constructor for the main application. Rendered output goes
// to outW and logs to logW. The schema registry is loaded from
// cfg.SchemasPath and validated before NewApp returns.
func NewApp(outW, logW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if err := reg.LoadSchemasRecursively(ctx, cfg.SchemasPath); err != nil {
		return nil, fmt.Errorf("failed to load schemas: %w", err)
	}
	logger.Debug("Schemas loaded.", "count", reg.Len())

	if err := reg.ValidateRegistry(ctx); err != nil {
		return nil, err
	}
	logger.Debug("Registry validation passed.")

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		config:   cfg,
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// withLogger attaches the app's logger to ctx.
func (a *App) withLogger(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

func (a *App) schema(name string) (*schema.Schema, error) {
	s, ok := a.registry.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w '%s'", ErrUnknownSchema, name)
	}
	return s, nil
}
