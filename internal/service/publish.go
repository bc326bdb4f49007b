package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/arrayconfig"
	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/catalog"
	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/config"
	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/coords"
	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/models"
)

// ErrNothingToPublish is returned when no remote store is configured.
var ErrNothingToPublish = errors.New("nothing to publish: set ARRAY_CONFIG_TABLE or COORDS_BUCKET")

// ConfigStore persists the array configuration. *arrayconfig.DynamoConfig
// satisfies it.
type ConfigStore interface {
	Save(ctx context.Context, refs []models.StationReference) error
}

// TableStore persists coordinate tables. *coords.S3Table satisfies it.
type TableStore interface {
	Put(ctx context.Context, station string, rows []models.AntennaRecord) error
}

// Publish copies a local array configuration and the coordinate table of
// every station it names into the remote stores. A nil store is skipped.
// Tables go first so the published configuration never names a station
// whose table is missing.
func Publish(ctx context.Context, static *arrayconfig.Static, src models.CoordinateTable, configs ConfigStore, tables TableStore) error {
	refs := static.References()
	if tables != nil {
		cat := catalog.New(static, src)
		for _, ref := range refs {
			_, rows, err := cat.Open(ctx, ref.Name)
			if err != nil {
				return fmt.Errorf("reading table of %s: %w", ref.Name, err)
			}
			if err := tables.Put(ctx, ref.Name, rows); err != nil {
				return fmt.Errorf("publishing table of %s: %w", ref.Name, err)
			}
		}
		log.Info().Int("stations", len(refs)).Msg("Published coordinate tables")
	}

	if configs != nil {
		if err := configs.Save(ctx, refs); err != nil {
			return fmt.Errorf("publishing array configuration: %w", err)
		}
		log.Info().Int("stations", len(refs)).Msg("Published array configuration")
	}
	return nil
}

// PublishFromConfig reads the YAML configuration and coordinate directory
// named by cfg and publishes them to the DynamoDB table and S3 bucket it
// sets. It returns the number of stations published. A dry run reads and
// checks every table into memory and writes nothing.
func PublishFromConfig(ctx context.Context, cfg *config.Config, dryRun bool) (int, error) {
	if !dryRun && cfg.ArrayConfigTable == "" && cfg.CoordsBucket == "" {
		return 0, ErrNothingToPublish
	}

	static, err := arrayconfig.LoadFile(cfg.ArrayConfigFile)
	if err != nil {
		return 0, err
	}
	src := coords.NewDirTable(cfg.CoordsDir)
	names, _ := static.ValidNames(ctx)

	if dryRun {
		if err := Publish(ctx, static, src, nil, coords.MemoryTable{}); err != nil {
			return 0, err
		}
		return len(names), nil
	}

	var configs ConfigStore
	if cfg.ArrayConfigTable != "" {
		client, err := arrayconfig.NewDynamoClient(ctx, cfg.DynamoDBEndpoint)
		if err != nil {
			return 0, fmt.Errorf("creating DynamoDB client: %w", err)
		}
		configs = arrayconfig.NewDynamoConfig(client, cfg.ArrayConfigTable)
	}

	var tables TableStore
	if cfg.CoordsBucket != "" {
		client, err := coords.NewS3Client(ctx, cfg.S3Endpoint)
		if err != nil {
			return 0, fmt.Errorf("creating S3 client: %w", err)
		}
		tables = coords.NewS3Table(client, cfg.CoordsBucket, cfg.CoordsPrefix)
	}

	if err := Publish(ctx, static, src, configs, tables); err != nil {
		return 0, err
	}
	return len(names), nil
}
