package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/unit"

	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/models"
)

// grid has one point on each axis at 3, 4 and 5 m, plus the origin.
func grid() Points {
	return Points{
		Names: []string{"O", "E3", "N4", "W5", "S5", "NE"},
		Local: []models.ENU{
			{E: 0, N: 0, U: 0},
			{E: 3, N: 0, U: 9},
			{E: 0, N: 4, U: -9},
			{E: -5, N: 0},
			{E: 0, N: -5},
			{E: 3, N: 4, U: 100},
		},
	}
}

func TestFilterByRadius(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		center models.Planar
		radius float64
		invert bool
		want   []string
	}{
		{
			name:   "inside keeps input order",
			radius: 4.5,
			want:   []string{"O", "E3", "N4"},
		},
		{
			name:   "outside",
			radius: 4.5,
			invert: true,
			want:   []string{"W5", "S5", "NE"},
		},
		{
			name:   "tie excluded from inside",
			radius: 5,
			want:   []string{"O", "E3", "N4"},
		},
		{
			name:   "tie excluded from outside",
			radius: 5,
			invert: true,
			want:   []string{},
		},
		{
			name:   "up component ignored",
			radius: 3.5,
			want:   []string{"O", "E3"},
		},
		{
			name:   "shifted centre",
			center: models.Planar{E: 3, N: 4},
			radius: 4.5,
			want:   []string{"E3", "N4", "NE"},
		},
		{
			name:   "zero radius matches nothing",
			radius: 0,
			want:   []string{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := FilterByRadius(grid(), tt.center, tt.radius, tt.invert)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterByRadiusDisjoint(t *testing.T) {
	t.Parallel()

	pts := grid()
	centers := []models.Planar{{}, {E: 3, N: 4}, {E: -1.5, N: 2.25}}
	for _, c := range centers {
		for _, r := range []float64{0, 1, 3, 4, 5, 5.000001, 7.5, 100} {
			in := FilterByRadius(pts, c, r, false)
			out := FilterByRadius(pts, c, r, true)
			for _, name := range in {
				assert.NotContains(t, out, name, "centre %v radius %v", c, r)
			}
			assert.LessOrEqual(t, len(in)+len(out), len(pts.Names))
		}
	}
}

func TestFilterByDistanceUnits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		radius unit.Uniter
		want   []string
	}{
		{name: "bare metres", radius: unit.Length(4.5), want: []string{"O", "E3", "N4"}},
		{name: "kilometres", radius: unit.Length(0.0045 * 1e3), want: []string{"O", "E3", "N4"}},
		{name: "generic length unit", radius: unit.New(3.5, unit.Dimensions{unit.LengthDim: 1}), want: []string{"O", "E3"}},
		{name: "dimensionless as metres", radius: unit.Dimless(4.5), want: []string{"O", "E3", "N4"}},
		{name: "empty dimensions as metres", radius: unit.New(3.5, unit.Dimensions{}), want: []string{"O", "E3"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := FilterByDistance(grid(), models.Planar{}, tt.radius, false)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterByDistanceIncompatibleUnit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		radius unit.Uniter
	}{
		{name: "time", radius: unit.Time(3)},
		{name: "area", radius: unit.New(3, unit.Dimensions{unit.LengthDim: 2})},
		{name: "nil", radius: nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := FilterByDistance(grid(), models.Planar{}, tt.radius, false)
			assert.Nil(t, got)
			var unitErr *models.IncompatibleUnitError
			assert.True(t, errors.As(err, &unitErr), "want IncompatibleUnitError, got %v", err)
		})
	}
}

func TestNeighbours(t *testing.T) {
	t.Parallel()

	got, err := Neighbours(grid(), "S1", "E3", unit.Length(4.5))
	require.NoError(t, err)
	assert.Equal(t, []string{"O", "E3", "NE"}, got)

	got, err = Neighbours(grid(), "S1", "W5", unit.Length(1e-9))
	require.NoError(t, err)
	assert.Equal(t, []string{"W5"}, got, "a point is always its own neighbour")
}

func TestNeighboursErrors(t *testing.T) {
	t.Parallel()

	_, err := Neighbours(grid(), "S1", "XX", unit.Length(4))
	var antErr *models.UnknownAntennaError
	require.True(t, errors.As(err, &antErr))
	assert.Equal(t, "XX", antErr.Name)
	assert.Equal(t, "S1", antErr.Station)

	_, err = Neighbours(grid(), "S1", "E3", unit.Time(4))
	var unitErr *models.IncompatibleUnitError
	assert.True(t, errors.As(err, &unitErr))
}

func TestParseDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in         string
		wantMetres float64
		wantUnit   bool
		wantErr    bool
	}{
		{in: "15", wantMetres: 15},
		{in: "15m", wantMetres: 15},
		{in: " 0.015 km ", wantMetres: 15},
		{in: "1500cm", wantMetres: 15},
		{in: "2500mm", wantMetres: 2.5},
		{in: "10ft", wantMetres: 3.048},
		{in: "1e1m", wantMetres: 10},
		{in: "3s", wantUnit: true},
		{in: "2 min", wantUnit: true},
		{in: "5parsec", wantErr: true},
		{in: "", wantErr: true},
		{in: "m", wantErr: true},
		{in: "NaN", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			d, err := ParseDistance(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			m, err := Metres(d)
			if tt.wantUnit {
				var unitErr *models.IncompatibleUnitError
				assert.True(t, errors.As(err, &unitErr))
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.wantMetres, m, 1e-12)
			assert.False(t, math.IsNaN(m))
		})
	}
}
