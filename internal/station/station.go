// Package station provides the Station type: an immutable set of LFAA
// elements with their local East-North-Up coordinates, built either as a
// full station or as a substation carved out of one.
package station

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/unit"

	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/frame"
	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/geometry"
	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/models"
	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/selection"
)

// Spec describes the station to build. For KindFull only Name is used. For
// KindSub, Parent names the full station, Name is the display name
// (defaulting to Parent) and Patterns selects the members; nil Patterns
// selects every element of the parent.
type Spec struct {
	Kind     models.Kind
	Name     string
	Parent   string
	Patterns []string
}

// Full returns the Spec of a full station.
func Full(name string) Spec {
	return Spec{Kind: models.KindFull, Name: name}
}

// Sub returns the Spec of a substation of parent selected by a
// comma-separated LFAA selection string.
func Sub(parent, name, lfaa string) Spec {
	return Spec{Kind: models.KindSub, Name: name, Parent: parent, Patterns: selection.ParsePatterns(lfaa)}
}

// ParseSpec interprets a station type string: "substation" yields a
// substation of parent, anything else is taken as a full station name.
func ParseSpec(stationType, parent, name, lfaa string) Spec {
	if stationType == models.SubstationType {
		return Sub(parent, name, lfaa)
	}
	return Full(stationType)
}

// Canonical returns the full-station name the geometry is anchored to.
func (s Spec) Canonical() string {
	if s.Kind == models.KindSub {
		return s.Parent
	}
	return s.Name
}

// Station is a loaded station. It is never mutated after New returns and
// is safe for concurrent reads.
type Station struct {
	kind        models.Kind
	displayName string
	reference   models.StationReference
	members     []models.AntennaRecord
	local       []models.ENU
}

// New loads and validates the station described by spec. Construction is
// all-or-nothing: any failure returns a nil Station.
func New(ctx context.Context, src Source, spec Spec) (*Station, error) {
	canonical := spec.Canonical()
	ref, rows, err := src.Open(ctx, canonical)
	if err != nil {
		return nil, err
	}

	members := rows
	displayName := canonical
	if spec.Kind == models.KindSub {
		if spec.Name != "" {
			displayName = spec.Name
		}
		members, err = selectMembers(rows, spec.Patterns)
		if err != nil {
			return nil, err
		}
	}

	points := make([]models.Geocentric, len(members))
	for i, m := range members {
		points[i] = m.Geocentric
	}

	s := &Station{
		kind:        spec.Kind,
		displayName: displayName,
		reference:   ref,
		members:     members,
		local:       frame.ToLocal(ref.Point, points),
	}

	log.Debug().
		Str("station", displayName).
		Str("kind", spec.Kind.String()).
		Str("parent", canonical).
		Int("members", len(members)).
		Msg("Station loaded")
	return s, nil
}

func selectMembers(rows []models.AntennaRecord, patterns []string) ([]models.AntennaRecord, error) {
	all := make([]string, len(rows))
	byName := make(map[string]models.AntennaRecord, len(rows))
	for i, r := range rows {
		all[i] = r.Name
		byName[r.Name] = r
	}

	names, err := selection.Resolve(all, patterns)
	if err != nil {
		return nil, err
	}

	members := make([]models.AntennaRecord, len(names))
	for i, name := range names {
		members[i] = byName[name]
	}
	return members, nil
}

func (s *Station) Kind() models.Kind {
	return s.kind
}

// Name returns the display name.
func (s *Station) Name() string {
	return s.displayName
}

// CanonicalName returns the name of the full station the geometry belongs to.
func (s *Station) CanonicalName() string {
	return s.reference.Name
}

func (s *Station) RotationDeg() float64 {
	return s.reference.RotationDeg
}

func (s *Station) Reference() models.StationReference {
	return s.reference
}

// Len returns the number of members.
func (s *Station) Len() int {
	return len(s.members)
}

// Names returns the member names in member order.
func (s *Station) Names() []string {
	names := make([]string, len(s.members))
	for i, m := range s.members {
		names[i] = m.Name
	}
	return names
}

// LocalCoordinates returns a copy of the local coordinates, parallel to
// Names.
func (s *Station) LocalCoordinates() []models.ENU {
	return slices.Clone(s.local)
}

func (s *Station) points() geometry.Points {
	return geometry.Points{Names: s.Names(), Local: s.local}
}

// FilterByRadius returns the members strictly within radius of center on the
// East-North plane, or strictly outside it when invert is set.
func (s *Station) FilterByRadius(center models.Planar, radius unit.Uniter, invert bool) ([]string, error) {
	return geometry.FilterByDistance(s.points(), center, radius, invert)
}

// FilterByDistance is FilterByRadius centred on the station reference point.
func (s *Station) FilterByDistance(radius unit.Uniter, invert bool) ([]string, error) {
	return s.FilterByRadius(models.Planar{}, radius, invert)
}

// Neighbours returns the members strictly within radius of the member ref,
// ref included.
func (s *Station) Neighbours(ref string, radius unit.Uniter) ([]string, error) {
	return geometry.Neighbours(s.points(), s.displayName, ref, radius)
}

// Coordinates returns the geocentric position of each named member, in the
// order requested.
func (s *Station) Coordinates(names []string) ([]models.AntennaRecord, error) {
	out := make([]models.AntennaRecord, 0, len(names))
	for _, name := range names {
		i := slices.IndexFunc(s.members, func(m models.AntennaRecord) bool { return m.Name == name })
		if i < 0 {
			return nil, models.NewUnknownAntennaError(name, s.displayName)
		}
		out = append(out, s.members[i])
	}
	return out, nil
}

// Layout returns the data needed to draw the station.
func (s *Station) Layout() models.Layout {
	return models.Layout{
		DisplayName: s.displayName,
		RotationDeg: s.reference.RotationDeg,
		Names:       s.Names(),
		Local:       s.LocalCoordinates(),
	}
}

func (s *Station) String() string {
	return fmt.Sprintf("%s station %s (%d LFAA)", s.kind, s.displayName, len(s.members))
}

// ParseNames splits a comma-separated list of LFAA names, trimming spaces
// and dropping empty entries.
func ParseNames(list string) []string {
	var names []string
	for _, n := range strings.Split(list, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}
