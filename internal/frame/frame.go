// Package frame converts geocentric (ECEF) positions into a local
// East-North-Up frame anchored at a station reference point.
package frame

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/models"
)

// WGS84 ellipsoid.
const (
	SemiMajorAxis = 6378137.0
	Flattening    = 1.0 / 298.257223563
)

var (
	semiMinorAxis = SemiMajorAxis * (1 - Flattening)
	eccentricity2 = Flattening * (2 - Flattening)
)

// Geodetic is a WGS84 position. Lat and Lon are in radians, Height in metres
// above the ellipsoid.
type Geodetic struct {
	Lat    float64
	Lon    float64
	Height float64
}

// ToGeodetic converts an ECEF position to WGS84 geodetic coordinates using
// Bowring's closed-form approximation, which is accurate to well below a
// millimetre at ground level.
func ToGeodetic(p models.Geocentric) Geodetic {
	if p.X == 0 && p.Y == 0 && p.Z == 0 {
		return Geodetic{Height: -SemiMajorAxis}
	}

	a := SemiMajorAxis
	b := semiMinorAxis
	h := a*a - b*b
	r := math.Hypot(p.X, p.Y)
	t := math.Atan2(p.Z*a, r*b)
	sint := math.Sin(t)
	cost := math.Cos(t)

	lat := math.Atan2(p.Z+h/b*sint*sint*sint, r-h/a*cost*cost*cost)
	lon := math.Atan2(p.Y, p.X)
	sinLat := math.Sin(lat)
	n := a / math.Sqrt(1-eccentricity2*sinLat*sinLat)

	var height float64
	if cosLat := math.Cos(lat); math.Abs(cosLat) > 1e-10 {
		height = r/cosLat - n
	} else {
		// On the polar axis.
		height = math.Abs(p.Z) - b
	}
	return Geodetic{Lat: lat, Lon: lon, Height: height}
}

// Frame is a local East-North-Up frame. The zero value is not usable; build
// one with New.
type Frame struct {
	origin models.Geocentric
	rot    *mat.Dense
}

// New returns the ENU frame whose origin is the given ECEF point. The axes
// follow the geodetic latitude and longitude of the origin.
func New(origin models.Geocentric) Frame {
	g := ToGeodetic(origin)
	sinLon, cosLon := math.Sincos(g.Lon)
	sinLat, cosLat := math.Sincos(g.Lat)

	rot := mat.NewDense(3, 3, []float64{
		-sinLon, cosLon, 0,
		-sinLat * cosLon, -sinLat * sinLon, cosLat,
		cosLat * cosLon, cosLat * sinLon, sinLat,
	})
	return Frame{origin: origin, rot: rot}
}

// ToLocal converts one ECEF point into the frame. The translation is applied
// before the rotation so that points near the origin keep full precision.
func (f Frame) ToLocal(p models.Geocentric) models.ENU {
	d := p.Sub(f.origin)
	var out mat.VecDense
	out.MulVec(f.rot, mat.NewVecDense(3, []float64{d.X, d.Y, d.Z}))
	return models.ENU{E: out.AtVec(0), N: out.AtVec(1), U: out.AtVec(2)}
}

// ToLocalAll converts points in order.
func (f Frame) ToLocalAll(points []models.Geocentric) []models.ENU {
	out := make([]models.ENU, len(points))
	for i, p := range points {
		out[i] = f.ToLocal(p)
	}
	return out
}

// ToLocal converts points into the ENU frame anchored at origin.
func ToLocal(origin models.Geocentric, points []models.Geocentric) []models.ENU {
	return New(origin).ToLocalAll(points)
}
