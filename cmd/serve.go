package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/assetd/internal/assets"
	"github.com/desertthunder/assetd/internal/repositories"
	"github.com/desertthunder/assetd/internal/server"
	"github.com/desertthunder/assetd/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve starts the HTTP server and blocks until SIGINT or SIGTERM.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	if cmd.IsSet("host") {
		config.Server.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		config.Server.Port = cmd.Int("port")
	}
	if cmd.IsSet("root") {
		config.Assets.Root = cmd.String("root")
	}

	if err := config.Validate(); err != nil {
		return err
	}

	resolver, err := r.newResolver(config)
	if err != nil {
		return err
	}
	if err := resolver.CheckRoot(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	var recorder server.AccessRecorder
	if config.AccessLog.Persist {
		db, err := shared.OpenDatabase(ctx, config.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := shared.RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		writer := repositories.NewAccessLogWriter(repositories.NewAccessLogRepository(db), config.AccessLog.Buffer, r.logger)
		defer func() {
			if err := writer.Close(); err != nil {
				r.logger.Warn("failed to flush access log", "error", err)
			}
			r.logger.Info("access log closed", "written", writer.Written(), "dropped", writer.Dropped())
		}()

		recorder = writer
		r.logger.Info("persisting access records", "database", config.Database.Path)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.logger.Info("serving assets", "root", resolver.Root(), "addr", config.ServerAddress())

	srv := server.NewHTTPServer(config.ServerAddress(), config.Server, r.buildRouter(config, resolver, recorder), r.logger)
	return srv.Start(ctx)
}

// buildRouter wires the middleware stack around the asset handler.
//
// Request ids are assigned first so the access line and recovery both see them; rate limiting runs
// innermost so rejected requests are still logged.
func (r *Runner) buildRouter(config *shared.Config, resolver *assets.Resolver, recorder server.AccessRecorder) http.Handler {
	router := server.NewBasicRouter()
	router.Use(
		server.RequestID(),
		server.AccessLog(r.logger, recorder),
		server.Recover(r.logger),
		server.RateLimit(server.NewLimiter(config.Server), r.logger),
	)
	router.Handler(assets.NewHandler(resolver, nil, r.logger))
	return router
}
