package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/deppfellow/breezi/internal/config"
	"github.com/deppfellow/breezi/internal/database"
	"github.com/deppfellow/breezi/internal/handler"
	"github.com/deppfellow/breezi/internal/router"
	"github.com/deppfellow/breezi/internal/server"
	"github.com/deppfellow/breezi/internal/service"
)

const shutdownTimeout = 30 * time.Second

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := bootstrap(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.cfg.Database.Driver == config.DriverPostgres {
		if err := database.Migrate(ctx, &a.log, a.cfg); err != nil {
			a.loggerService.Shutdown()
			a.log.Error().Err(err).Msg("failed to migrate database")
			return err
		}
	}

	srv, err := server.New(ctx, a.cfg, &a.log, a.loggerService)
	if err != nil {
		a.loggerService.Shutdown()
		a.log.Error().Err(err).Msg("failed to initialize server")
		return err
	}

	services := service.NewServices(srv.Repositories, &a.log)
	dispatcher, err := a.dispatcher(services)
	if err != nil {
		_ = srv.Shutdown(context.Background())
		return err
	}

	if a.cfg.Bindings.Generate {
		if err := a.exportBindings(dispatcher); err != nil {
			_ = srv.Shutdown(context.Background())
			return err
		}
	}

	srv.SetupHTTPServer(router.NewRouter(srv, handler.NewHandlers(srv, dispatcher)))

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		a.log.Info().Msg("shutting down server")
	case err = <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		if err != nil {
			a.log.Error().Err(err).Msg("server stopped")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		a.log.Error().Err(shutdownErr).Msg("server forced to shutdown")
		return errors.Join(err, shutdownErr)
	}

	a.log.Info().Msg("server exited properly")
	return err
}
