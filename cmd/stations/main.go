package main

import (
	"context"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/api"
	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/config"
	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/handler"
	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/observability"
	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/service"
)

var (
	stationsHandler *handler.StationsHandler
	setupMu         sync.Mutex
	initOnce        sync.Once
	lambdaStart     = lambda.Start
)

// setup returns the request handler, building it on first use. A failed
// build is retried on the next request; logging and tracing start once.
func setup(ctx context.Context) *handler.StationsHandler {
	initOnce.Do(func() {
		cfg := config.LoadFromEnv()
		cfg.InitializeLogging()
		log.Info().Str("env", cfg.Environment).Str("coords_source", cfg.CoordsSource()).Msg("Environment")

		if _, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv()); err != nil {
			log.Warn().Err(err).Msg("Tracing unavailable")
		}
	})

	setupMu.Lock()
	defer setupMu.Unlock()
	if stationsHandler != nil {
		return stationsHandler
	}
	builder, err := service.NewFromConfig(ctx, config.LoadFromEnv(), config.GetCacheConfig(), nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize station service")
		return nil
	}
	stationsHandler = handler.NewStationsHandler(builder)
	return stationsHandler
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	h := setup(ctx)
	log.Info().Str("op", request.QueryStringParameters["op"]).Msg("Handling Lambda request")

	if h == nil {
		return api.Error("Station service unavailable", http.StatusServiceUnavailable)
	}
	return h.HandleRequest(ctx, request)
}

func main() {
	lambdaStart(handleRequest)
}
