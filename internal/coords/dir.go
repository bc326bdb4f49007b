package coords

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/models"
)

// DirTable reads <Dir>/<station>_coordinates.csv.
type DirTable struct {
	Dir string
}

func NewDirTable(dir string) *DirTable {
	return &DirTable{Dir: dir}
}

func (t *DirTable) RowsFor(_ context.Context, station string) ([]models.AntennaRecord, error) {
	path := filepath.Join(t.Dir, FileName(station))
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening coordinate table: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Error().Err(err).Str("path", path).Msg("Error closing coordinate table")
		}
	}()

	return ParseCSV(station, f)
}
