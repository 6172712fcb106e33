package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kerhoff/tripplanner/internal/api"
	"github.com/Kerhoff/tripplanner/internal/enrich"
	"github.com/Kerhoff/tripplanner/internal/metrics"
	"github.com/Kerhoff/tripplanner/internal/repository/sqldb"
	"github.com/Kerhoff/tripplanner/internal/service"
	"github.com/Kerhoff/tripplanner/internal/storage"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and serve the web UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(parent context.Context) error {
	cfg, l, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer db.Close()

	l.Info("Starting tripplanner...")

	if err := db.Migrate(); err != nil {
		return err
	}

	// External clients
	var enricher service.Enricher
	if cfg.Places.Enabled() {
		enricher = enrich.New(cfg.Places, cfg.HTTPClientTimeout, l)
	}

	uploader, err := storage.New(cfg.Storage, cfg.HTTPClientTimeout, l)
	if err != nil {
		return fmt.Errorf("failed to set up photo storage: %w", err)
	}

	m := metrics.New()
	svc := service.New(l, sqldb.NewRepositories(db.DB), enricher, uploader, m)
	if !svc.EnrichmentEnabled() {
		l.Warn("GOOGLE_MAPS_API_KEY is not set, place lookups are disabled")
	}
	if !svc.UploadsEnabled() {
		l.Warn("No photo storage configured, uploads are disabled")
	}

	opts := api.Options{
		SessionSecret:  cfg.SessionSecret,
		MapsAPIKey:     cfg.Places.APIKey,
		MaxUploadBytes: cfg.Storage.MaxUploadBytes,
		DB:             db,
		Metrics:        m,
	}
	if local, ok := uploader.(*storage.LocalUploader); ok {
		opts.UploadDir = local.Dir()
	}
	apiServer, err := api.NewServer(svc, l, opts)
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	servers := []*http.Server{{
		Addr:              ":" + cfg.Port,
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}}
	if cfg.PrometheusPort != "" {
		servers = append(servers, &http.Server{
			Addr:              ":" + cfg.PrometheusPort,
			Handler:           m.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		})
	}

	errCh := make(chan error, len(servers))
	for _, srv := range servers {
		go func(srv *http.Server) {
			l.Infof("HTTP server listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("server on %s: %w", srv.Addr, err)
			}
		}(srv)
	}

	l.Info("tripplanner started successfully")

	var runErr error
	select {
	case <-ctx.Done():
		l.Info("Received shutdown signal...")
	case runErr = <-errCh:
		l.WithError(runErr).Error("HTTP server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			l.WithError(err).Warnf("Failed to shut down server on %s", srv.Addr)
		}
	}

	l.Info("tripplanner stopped")
	return runErr
}
