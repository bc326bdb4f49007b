// Package catalog validates station names against the array configuration
// and loads each full station's antenna table.
package catalog

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/models"
)

// Catalog combines the array configuration with the coordinate tables.
type Catalog struct {
	config models.ArrayConfig
	table  models.CoordinateTable
}

func New(config models.ArrayConfig, table models.CoordinateTable) *Catalog {
	return &Catalog{config: config, table: table}
}

// ValidNames returns the full-station names known to the array
// configuration.
func (c *Catalog) ValidNames(ctx context.Context) ([]string, error) {
	names, err := c.config.ValidNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing valid stations: %w", err)
	}
	return names, nil
}

// Open validates name once and returns the station's reference and its
// antennas in table order. An unknown name never reaches the table.
// Callers own the returned slice.
func (c *Catalog) Open(ctx context.Context, name string) (models.StationReference, []models.AntennaRecord, error) {
	if err := c.validate(ctx, name); err != nil {
		return models.StationReference{}, nil, err
	}
	ref, err := c.reference(ctx, name)
	if err != nil {
		return models.StationReference{}, nil, err
	}
	rows, err := c.load(ctx, name)
	if err != nil {
		return models.StationReference{}, nil, err
	}
	return ref, rows, nil
}

// validate fails with UnknownStationError when name is not a full station.
func (c *Catalog) validate(ctx context.Context, name string) error {
	names, err := c.ValidNames(ctx)
	if err != nil {
		return err
	}
	if !slices.Contains(names, name) {
		return models.NewUnknownStationError(name, names)
	}
	return nil
}

func (c *Catalog) reference(ctx context.Context, name string) (models.StationReference, error) {
	point, err := c.config.ReferenceFor(ctx, name)
	if err != nil {
		return models.StationReference{}, fmt.Errorf("getting reference point for %s: %w", name, err)
	}
	rotation, err := c.config.RotationFor(ctx, name)
	if err != nil {
		return models.StationReference{}, fmt.Errorf("getting rotation for %s: %w", name, err)
	}
	return models.StationReference{Name: name, Point: point, RotationDeg: rotation}, nil
}

// load reads and checks the antenna table of an already validated station.
func (c *Catalog) load(ctx context.Context, name string) ([]models.AntennaRecord, error) {
	rows, err := c.table.RowsFor(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("loading coordinates for %s: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, models.NewTableError(name, "no antennas", nil)
	}

	seen := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		if r.Name == "" {
			return nil, models.NewTableError(name, "antenna with empty name", nil)
		}
		if _, dup := seen[r.Name]; dup {
			return nil, models.NewTableError(name, fmt.Sprintf("duplicate antenna %s", r.Name), nil)
		}
		seen[r.Name] = struct{}{}
	}

	log.Debug().Str("station", name).Int("antennas", len(rows)).Msg("Loaded coordinate table")
	return slices.Clone(rows), nil
}
