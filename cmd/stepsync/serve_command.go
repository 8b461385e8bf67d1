package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/pkordes/stepsync/internal/config"
	"github.com/pkordes/stepsync/internal/handler"
	"github.com/pkordes/stepsync/internal/middleware"
	"github.com/pkordes/stepsync/internal/service"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var tripID int64

	cmd := &cobra.Command{
		Use:   "serve <trip_dir>",
		Short: "Serve an export over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.openExport(args[0], tripID)
			if err != nil {
				return err
			}
			sigCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return ctx.serve(sigCtx, svc)
		},
	}

	cmd.Flags().Int64Var(&tripID, "trip-id", 0, "Remote trip id to assign")
	return cmd
}

// newRouter applies middleware in order: RequestID, RealIP, request logging,
// Recoverer, CORS. The API routes are mounted below them.
func newRouter(cfg config.Config, ctx *commandContext, svc *service.TripService) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(ctx.logger()))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Mount("/", handler.NewServer(svc).Routes())
	return r
}

// serve runs the HTTP server until ctx is cancelled, then gives in-flight
// requests up to 15 seconds to finish.
func (c *commandContext) serve(ctx context.Context, svc *service.TripService) error {
	log := c.logger()
	srv := &http.Server{
		Addr:         ":" + c.config.Port,
		Handler:      newRouter(c.config, c, svc),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: c.config.Upload.Timeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
