package station

import (
	"context"

	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/models"
)

// Source opens a full station: it validates the name and returns the
// reference and antenna table. *catalog.Catalog satisfies it.
type Source interface {
	Open(ctx context.Context, name string) (models.StationReference, []models.AntennaRecord, error)
}
