// Package geometry answers planar radius queries over a station's local
// East-North-Up coordinates. The Up component is ignored throughout.
package geometry

import (
	"gonum.org/v1/gonum/unit"

	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/models"
)

// Points is a parallel set of antenna names and local coordinates.
type Points struct {
	Names []string
	Local []models.ENU
}

// FilterByRadius returns the names whose planar distance from center is
// strictly less than radius, or strictly greater when invert is set. Points
// at exactly radius are in neither result. Output follows the input order.
func FilterByRadius(pts Points, center models.Planar, radius float64, invert bool) []string {
	out := make([]string, 0, len(pts.Names))
	for i, p := range pts.Local {
		d := center.DistanceTo(p.Planar())
		if (!invert && d < radius) || (invert && d > radius) {
			out = append(out, pts.Names[i])
		}
	}
	return out
}

// FilterByDistance is FilterByRadius with the radius given as a quantity.
func FilterByDistance(pts Points, center models.Planar, radius unit.Uniter, invert bool) ([]string, error) {
	r, err := Metres(radius)
	if err != nil {
		return nil, err
	}
	return FilterByRadius(pts, center, r, invert), nil
}

// Neighbours returns the names within radius of the named point, the point
// itself included whenever radius is positive. station names the owner in
// the UnknownAntenna error.
func Neighbours(pts Points, station, ref string, radius unit.Uniter) ([]string, error) {
	r, err := Metres(radius)
	if err != nil {
		return nil, err
	}
	for i, name := range pts.Names {
		if name == ref {
			return FilterByRadius(pts, pts.Local[i].Planar(), r, false), nil
		}
	}
	return nil, models.NewUnknownAntennaError(ref, station)
}
