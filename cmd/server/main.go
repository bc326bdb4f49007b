// Command server serves the station API and its metrics over HTTP for local
// development.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/config"
	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/handler"
	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/observability"
	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/service"
)

func newMux(ctx context.Context, cfg *config.Config, reg *prometheus.Registry) (*http.ServeMux, error) {
	builder, err := service.NewFromConfig(ctx, cfg, config.GetCacheConfig(), reg)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/stations", handler.NewHTTPHandler(handler.NewStationsHandler(builder)))
	mux.Handle("/cache", handler.NewCacheHandler(builder))
	if metrics := builder.Metrics(); metrics != nil {
		mux.Handle("/metrics", metrics.Handler())
	}
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux, nil
}

func port() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return "8080"
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize tracing")
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing)

	mux, err := newMux(ctx, cfg, prometheus.NewRegistry())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize station service")
	}

	srv := &http.Server{
		Addr:              ":" + port(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("Server shutdown failed")
		}
	}()

	log.Info().Str("addr", srv.Addr).Msg("Server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
