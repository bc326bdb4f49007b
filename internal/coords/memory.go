package coords

import (
	"context"
	"slices"

	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/models"
)

// MemoryTable is a fixed set of tables keyed by station name.
type MemoryTable map[string][]models.AntennaRecord

func (t MemoryTable) RowsFor(_ context.Context, station string) ([]models.AntennaRecord, error) {
	rows, ok := t[station]
	if !ok {
		return nil, models.NewTableError(station, "no coordinate table", nil)
	}
	return slices.Clone(rows), nil
}

// Put stores a copy of rows under station.
func (t MemoryTable) Put(_ context.Context, station string, rows []models.AntennaRecord) error {
	t[station] = slices.Clone(rows)
	return nil
}
