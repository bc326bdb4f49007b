package coords

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/models"
	"github.com/ska-telescope/ska-ost-sim-low-station-beam/pkg/http/client"
)

// HTTPTable fetches /<station>_coordinates.csv relative to the client's
// base URL.
type HTTPTable struct {
	client client.Interface
}

func NewHTTPTable(c client.Interface) *HTTPTable {
	return &HTTPTable{client: c}
}

func (t *HTTPTable) RowsFor(ctx context.Context, station string) ([]models.AntennaRecord, error) {
	resp, err := t.client.Get(ctx, "/"+FileName(station))
	if err != nil {
		return nil, fmt.Errorf("fetching coordinate table: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching coordinate table: unexpected status %d", resp.StatusCode)
	}
	return ParseCSV(station, bytes.NewReader(resp.Body))
}
