package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"corpstats/internal/corpstats/handler"
	"corpstats/internal/corpstats/scheduler"
	jwttoken "corpstats/internal/jwt_token"
	"corpstats/internal/platform/config"
	"corpstats/internal/platform/httpserver"
	"corpstats/internal/platform/metrics"
	"corpstats/internal/platform/middleware"
	"corpstats/internal/platform/postgres"
	"corpstats/pkg/platform/httputil"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd(cfg *config.Server) *cobra.Command {
	var (
		migrate  bool
		schedule bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and run scheduled syncs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if migrate && a.db != nil {
				if err := postgres.Migrate(a.db); err != nil {
					return err
				}
			}

			if schedule {
				sched := scheduler.New(a.service, cfg.Sync.Schedule, cfg.Sync.LockTTL, a.logger)
				if err := sched.Start(ctx); err != nil {
					return err
				}
				defer sched.Stop()
			}

			return serve(ctx, a)
		},
	}
	cmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	cmd.Flags().StringVar(&cfg.Sync.Schedule, "schedule", cfg.Sync.Schedule, "cron schedule for syncing every snapshot")
	cmd.Flags().BoolVar(&migrate, "migrate", true, "apply database migrations before serving")
	cmd.Flags().BoolVar(&schedule, "scheduler", true, "run scheduled syncs in this process")
	return cmd
}

func serve(ctx context.Context, a *app) error {
	jwt := jwttoken.NewJWTService(a.cfg.JWTSigningKey, a.cfg.JWTIssuer, a.cfg.JWTAudience)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Observe(metrics.New(), a.logger))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := a.health(r.Context()); err != nil {
			a.logger.WarnContext(r.Context(), "health check failed", "error", err)
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwt, a.logger))
		r.Use(chimw.Timeout(60 * time.Second))
		handler.New(a.service, a.directory, a.logger).Register(r)
	})

	srv := httpserver.New(a.cfg.Addr, r)
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting corpstats", "addr", a.cfg.Addr)
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

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
