package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/deppfellow/breezi/internal/bindings"
	"github.com/deppfellow/breezi/internal/config"
	"github.com/deppfellow/breezi/internal/logger"
	"github.com/deppfellow/breezi/internal/model"
	"github.com/deppfellow/breezi/internal/rpc"
	"github.com/deppfellow/breezi/internal/service"
	"github.com/deppfellow/breezi/internal/validation"
)

// app carries what every subcommand needs before storage is opened.
type app struct {
	cfg           *config.Config
	log           zerolog.Logger
	loggerService *logger.LoggerService
	patterns      *validation.PatternCache
}

func bootstrap(path string) (*app, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	patterns, err := validation.NewPatternCache(model.Patterns())
	if err != nil {
		loggerService.Shutdown()
		return nil, fmt.Errorf("failed to compile patterns: %w", err)
	}

	return &app{
		cfg:           cfg,
		log:           log,
		loggerService: loggerService,
		patterns:      patterns,
	}, nil
}

// dispatcher seals the registry of services into a dispatcher.
func (a *app) dispatcher(services *service.Services) (*rpc.Dispatcher, error) {
	return rpc.NewDispatcher(
		services.NewRegistry(),
		validation.New(a.patterns),
		a.log,
		rpc.WithSlowThreshold(a.cfg.Observability.Logging.SlowRequestThreshold),
	)
}

// exportBindings writes the client bindings of d into bindings.dir.
func (a *app) exportBindings(d *rpc.Dispatcher) error {
	exporter := bindings.NewExporter(a.cfg.Bindings.Dir, a.patterns, &a.log)
	if _, err := exporter.Export(d.Registry().Procedures(), model.UserSchema.Describe()); err != nil {
		return fmt.Errorf("failed to export bindings: %w", err)
	}
	return nil
}
