package models

import "context"

// ArrayConfig is the read-only oracle for station-level constants.
type ArrayConfig interface {
	// ValidNames returns the full-station names, in configuration order.
	ValidNames(ctx context.Context) ([]string, error)
	ReferenceFor(ctx context.Context, name string) (Geocentric, error)
	RotationFor(ctx context.Context, name string) (float64, error)
}

// CoordinateTable yields the antenna rows of a full station. Row order must
// be stable between calls.
type CoordinateTable interface {
	RowsFor(ctx context.Context, station string) ([]AntennaRecord, error)
}
