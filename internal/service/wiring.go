package service

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/arrayconfig"
	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/cache"
	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/catalog"
	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/config"
	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/coords"
	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/models"
	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/observability"
	"github.com/ska-telescope/ska-ost-sim-low-station-beam/pkg/http/client"
)

// NewFromConfig wires the array configuration, the coordinate table source
// and its cache from cfg. reg receives the metrics when they are enabled;
// nil means the default registry.
func NewFromConfig(ctx context.Context, cfg *config.Config, cacheCfg *config.CacheConfig, reg prometheus.Registerer) (*Builder, error) {
	var metrics *observability.Collector
	if cfg.MetricsEnabled {
		var err error
		if metrics, err = observability.NewCollector(reg); err != nil {
			return nil, fmt.Errorf("registering metrics: %w", err)
		}
	}

	arrayCfg, err := NewArrayConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	table, err := NewCoordinateTable(ctx, cfg)
	if err != nil {
		return nil, err
	}
	table, err = cache.Wrap(table, cacheCfg, metrics)
	if err != nil {
		return nil, fmt.Errorf("creating table cache: %w", err)
	}

	b := NewBuilder(catalog.New(arrayCfg, table), metrics)
	if tc, ok := table.(*cache.TableCache); ok {
		b.cache = tc
	}
	return b, nil
}

// NewArrayConfig returns the DynamoDB configuration when a table is set,
// else the YAML file.
func NewArrayConfig(ctx context.Context, cfg *config.Config) (models.ArrayConfig, error) {
	if cfg.ArrayConfigTable != "" {
		client, err := arrayconfig.NewDynamoClient(ctx, cfg.DynamoDBEndpoint)
		if err != nil {
			return nil, fmt.Errorf("creating DynamoDB client: %w", err)
		}
		log.Debug().Str("table", cfg.ArrayConfigTable).Msg("Using DynamoDB array configuration")
		return arrayconfig.NewDynamoConfig(client, cfg.ArrayConfigTable), nil
	}

	static, err := arrayconfig.LoadFile(cfg.ArrayConfigFile)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("file", cfg.ArrayConfigFile).Msg("Using file array configuration")
	return static, nil
}

// NewCoordinateTable returns the coordinate table source selected by
// cfg.CoordsSource.
func NewCoordinateTable(ctx context.Context, cfg *config.Config) (models.CoordinateTable, error) {
	switch cfg.CoordsSource() {
	case config.CoordsSourceS3:
		s3Client, err := coords.NewS3Client(ctx, cfg.S3Endpoint)
		if err != nil {
			return nil, fmt.Errorf("creating S3 client: %w", err)
		}
		return coords.NewS3Table(s3Client, cfg.CoordsBucket, cfg.CoordsPrefix), nil
	case config.CoordsSourceHTTP:
		return coords.NewHTTPTable(client.New(client.Options{
			BaseURL:    cfg.CoordsBaseURL,
			Timeout:    cfg.HTTPTimeout,
			MaxRetries: cfg.MaxRetries,
		})), nil
	default:
		return coords.NewDirTable(cfg.CoordsDir), nil
	}
}
