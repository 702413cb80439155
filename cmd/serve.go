package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/crossfade/internal/server"
	"github.com/desertthunder/crossfade/internal/session"
	"github.com/desertthunder/crossfade/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Serve starts the HTTP API for review-based transfers and blocks until
// interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	host := cmd.String("host")
	if host == "" {
		host = r.config.Server.Host
	}
	port := cmd.Int("port")
	if port == 0 {
		port = r.config.Server.Port
	}

	ttl := time.Duration(r.config.Server.SessionTTL) * time.Minute
	store := session.NewMemoryStore(ttl)

	provider := func(source, dest string) (*tasks.TransferEngine, error) {
		sourceSvc, err := r.resolveCatalog(source)
		if err != nil {
			return nil, err
		}
		destSvc, err := r.resolveCatalog(dest)
		if err != nil {
			return nil, err
		}
		return r.newEngine(sourceSvc, destSvc)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	router := server.NewBasicRouter()
	router.Use(server.LoggingMiddleware(r.logger))
	router.Handler(server.NewTransferHandler(ctx, store, provider, r.logger))

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Info("transfer API listening", "addr", addr)
		r.writePlain("Listening on http://%s\n", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	r.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	return nil
}
