// Package arrayconfig supplies the per-station constants of the array
// configuration: the valid full-station names, their reference points and
// their rotation angles.
package arrayconfig

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/models"
)

// Static is a fixed array configuration held in memory.
type Static struct {
	names []string
	refs  map[string]models.StationReference
}

// NewStatic builds a configuration from refs, keeping their order. Names
// must be non-empty and unique.
func NewStatic(refs ...models.StationReference) (*Static, error) {
	s := &Static{refs: make(map[string]models.StationReference, len(refs))}
	for _, ref := range refs {
		if ref.Name == "" {
			return nil, fmt.Errorf("station with empty name")
		}
		if _, dup := s.refs[ref.Name]; dup {
			return nil, fmt.Errorf("duplicate station %s", ref.Name)
		}
		s.names = append(s.names, ref.Name)
		s.refs[ref.Name] = ref
	}
	return s, nil
}

type file struct {
	Stations []models.StationReference `yaml:"stations"`
}

// Load reads a YAML configuration of the form
//
//	stations:
//	  - name: S8-1
//	    reference: {x: ..., y: ..., z: ...}
//	    rotation_deg: 45.0
func Load(r io.Reader) (*Static, error) {
	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding array configuration: %w", err)
	}
	return NewStatic(f.Stations...)
}

func LoadFile(path string) (*Static, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening array configuration: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func (s *Static) ValidNames(_ context.Context) ([]string, error) {
	return append([]string(nil), s.names...), nil
}

func (s *Static) ReferenceFor(_ context.Context, name string) (models.Geocentric, error) {
	ref, ok := s.refs[name]
	if !ok {
		return models.Geocentric{}, models.NewUnknownStationError(name, s.names)
	}
	return ref.Point, nil
}

func (s *Static) RotationFor(_ context.Context, name string) (float64, error) {
	ref, ok := s.refs[name]
	if !ok {
		return 0, models.NewUnknownStationError(name, s.names)
	}
	return ref.RotationDeg, nil
}

// References returns every station in configuration order.
func (s *Static) References() []models.StationReference {
	out := make([]models.StationReference, len(s.names))
	for i, name := range s.names {
		out[i] = s.refs[name]
	}
	return out
}
