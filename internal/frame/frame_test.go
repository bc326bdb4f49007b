package frame

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/models"
)

const mm = 1e-3

func degToRad(d float64) float64 { return d * math.Pi / 180 }

func radToDeg(r float64) float64 { return r * 180 / math.Pi }

// toGeocentric converts a WGS84 geodetic position to ECEF.
func toGeocentric(g Geodetic) models.Geocentric {
	sinLat, cosLat := math.Sincos(g.Lat)
	n := SemiMajorAxis / math.Sqrt(1-eccentricity2*sinLat*sinLat)
	return models.Geocentric{
		X: (n + g.Height) * cosLat * math.Cos(g.Lon),
		Y: (n + g.Height) * cosLat * math.Sin(g.Lon),
		Z: (n*(1-eccentricity2) + g.Height) * sinLat,
	}
}

// toGeocentric maps a local point back to ECEF.
func (f Frame) toGeocentric(p models.ENU) models.Geocentric {
	var out mat.VecDense
	out.MulVec(f.rot.T(), mat.NewVecDense(3, []float64{p.E, p.N, p.U}))
	return models.Geocentric{
		X: f.origin.X + out.AtVec(0),
		Y: f.origin.Y + out.AtVec(1),
		Z: f.origin.Z + out.AtVec(2),
	}
}

func TestToGeodetic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		point      models.Geocentric
		wantLatDeg float64
		wantLonDeg float64
		wantHeight float64
	}{
		{
			name:       "reference pair",
			point:      models.Geocentric{X: -2565034.620620, Y: 5085754.888581, Z: -2861053.487278},
			wantLatDeg: -26.8247,
			wantLonDeg: 116.7644,
			wantHeight: 350.0,
		},
		{
			name:       "equator prime meridian",
			point:      models.Geocentric{X: SemiMajorAxis},
			wantLatDeg: 0,
			wantLonDeg: 0,
			wantHeight: 0,
		},
		{
			name:       "north pole",
			point:      models.Geocentric{Z: semiMinorAxis + 100},
			wantLatDeg: 90,
			wantLonDeg: 0,
			wantHeight: 100,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := ToGeodetic(tt.point)
			assert.InDelta(t, tt.wantLatDeg, radToDeg(g.Lat), 1e-9)
			assert.InDelta(t, tt.wantLonDeg, radToDeg(g.Lon), 1e-9)
			assert.InDelta(t, tt.wantHeight, g.Height, mm)
		})
	}
}

func TestToGeocentricInvertsToGeodetic(t *testing.T) {
	t.Parallel()

	in := Geodetic{Lat: degToRad(-26.8247), Lon: degToRad(116.7644), Height: 350}
	p := toGeocentric(in)
	assert.InDelta(t, -2565034.620620, p.X, mm)
	assert.InDelta(t, 5085754.888581, p.Y, mm)
	assert.InDelta(t, -2861053.487278, p.Z, mm)

	back := ToGeodetic(p)
	assert.InDelta(t, in.Lat, back.Lat, 1e-12)
	assert.InDelta(t, in.Lon, back.Lon, 1e-12)
	assert.InDelta(t, in.Height, back.Height, mm)
}

func TestToLocalKnownOffset(t *testing.T) {
	t.Parallel()

	// The point sits 10 m east, 5 m south and 0.3 m above the origin.
	origin := models.Geocentric{X: -2565034.620620, Y: 5085754.888581, Z: -2861053.487278}
	point := models.Geocentric{X: -2565042.653768, Y: 5085748.609805, Z: -2861058.084614}

	got := ToLocal(origin, []models.Geocentric{point})
	require.Len(t, got, 1)
	assert.InDelta(t, 10.0, got[0].E, mm)
	assert.InDelta(t, -5.0, got[0].N, mm)
	assert.InDelta(t, 0.3, got[0].U, mm)
}

func TestToLocalStationAntenna(t *testing.T) {
	t.Parallel()

	reference := models.Geocentric{X: -2561218.6164, Y: 5085885.5733, Z: -2864172.6582}
	sb0101 := models.Geocentric{X: -2561216.6924, Y: 5085891.1196, Z: -2864164.6997}

	got := New(reference).ToLocal(sb0101)
	assert.InDelta(t, -4.213, got.E, mm)
	assert.InDelta(t, 8.947, got.N, mm)
	assert.InDelta(t, 0.052, got.U, mm)
}

func TestOriginMapsToZero(t *testing.T) {
	t.Parallel()

	origin := models.Geocentric{X: -2561218.6164, Y: 5085885.5733, Z: -2864172.6582}
	f := New(origin)
	assert.Equal(t, origin, f.origin)

	got := f.ToLocal(origin)
	assert.Equal(t, models.ENU{}, got)
}

func TestToGeocentricRoundTrip(t *testing.T) {
	t.Parallel()

	f := New(models.Geocentric{X: -2561218.6164, Y: 5085885.5733, Z: -2864172.6582})
	offsets := []models.ENU{
		{E: 0, N: 0, U: 0},
		{E: 19.5, N: 0, U: 0},
		{E: -12.609, N: -8.150, U: -0.019},
		{E: 3.3, N: -24, U: 1.25},
	}
	for _, want := range offsets {
		got := f.ToLocal(f.toGeocentric(want))
		assert.InDelta(t, want.E, got.E, 1e-6)
		assert.InDelta(t, want.N, got.N, 1e-6)
		assert.InDelta(t, want.U, got.U, 1e-6)
	}
}

func TestRotationPreservesDistance(t *testing.T) {
	t.Parallel()

	origin := models.Geocentric{X: -2561218.6164, Y: 5085885.5733, Z: -2864172.6582}
	point := models.Geocentric{X: -2561232.8546, Y: 5085875.9368, Z: -2864176.9108}

	local := New(origin).ToLocal(point)
	want := point.Sub(origin).Norm()
	got := math.Sqrt(local.E*local.E + local.N*local.N + local.U*local.U)
	assert.InDelta(t, want, got, 1e-9)
}

func TestToLocalEmpty(t *testing.T) {
	t.Parallel()

	got := ToLocal(models.Geocentric{X: SemiMajorAxis}, nil)
	assert.Empty(t, got)
}
