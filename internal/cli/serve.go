package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	transport "holo-museum-guide/internal/transport/http"
)

// NewServeCmd builds the CLI subcommand that serves the guide to browsers.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the guide over WebSocket and HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := loadRuntime(ctx, configPath)
	if err != nil {
		return err
	}
	defer rt.Close()
	logger := rt.logger

	if rt.cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, rt.cfg, logger); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = rt.cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var recorder transport.SnapshotRecorder
	if rt.snapshots != nil {
		recorder = rt.snapshots
	}
	router := transport.NewRouter(
		transport.NewWSHandler(rt.service, logger),
		transport.NewAPIHandler(rt.service, logger),
		transport.NewSnapshotHandler(recorder, rt.cfg.Server.SnapshotLimit, rt.cfg.Server.SnapshotMaxPixels, logger),
	)

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// no WriteTimeout: websocket connections stay open for the whole visit
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting guide service", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if rt.liveness != nil {
		g.Go(func() error {
			refreshLiveness(gctx, rt, logger)
			return nil
		})
	}
	return g.Wait()
}

// refreshLiveness keeps this instance's Redis session markers from lapsing.
func refreshLiveness(ctx context.Context, rt *runtime, logger *zap.Logger) {
	interval := rt.liveness.TTL() / 2
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := rt.liveness.Refresh(ctx); err != nil {
				logger.Warn("refresh session markers", zap.Error(err))
				continue
			}
			if live, err := rt.liveness.CountLive(ctx); err == nil {
				logger.Debug("live sessions", zap.Int("count", live))
			}
		}
	}
}
