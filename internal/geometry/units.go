package geometry

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/unit"

	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/models"
)

// Metres converts a distance to metres. A unit.Length is already in metres
// and a dimensionless quantity is read as metres, like a bare number. Any
// other Uniter must carry the length dimension and nothing else.
func Metres(d unit.Uniter) (float64, error) {
	if d == nil || d.Unit() == nil {
		return 0, models.NewIncompatibleUnitError("<nil>")
	}
	if u := d.Unit(); len(u.Dimensions()) == 0 {
		return u.Value(), nil
	}
	var l unit.Length
	if err := l.From(d); err != nil {
		return 0, models.NewIncompatibleUnitError(fmt.Sprint(d))
	}
	return float64(l), nil
}

var lengthSuffixes = map[string]float64{
	"m":  1,
	"km": 1e3,
	"cm": 1e-2,
	"mm": 1e-3,
	"ft": 0.3048,
}

var timeSuffixes = map[string]float64{
	"s":   1,
	"ms":  1e-3,
	"min": 60,
	"h":   3600,
}

// ParseDistance parses a number with an optional unit suffix, e.g. "15",
// "15m" or "0.015 km". A bare number is metres. Time suffixes parse to a
// time quantity so that Metres rejects them; unknown suffixes are an error.
func ParseDistance(s string) (unit.Uniter, error) {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.' && r != '-' && r != '+' && r != 'e' && r != 'E'
	})
	num, suffix := s, ""
	if i >= 0 {
		num, suffix = strings.TrimSpace(s[:i]), strings.TrimSpace(s[i:])
	}

	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing distance %q: %w", s, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("parsing distance %q: not a finite number", s)
	}

	if suffix == "" {
		return unit.Length(v), nil
	}
	if scale, ok := lengthSuffixes[suffix]; ok {
		return unit.Length(v * scale), nil
	}
	if scale, ok := timeSuffixes[suffix]; ok {
		return unit.Time(v * scale), nil
	}
	return nil, fmt.Errorf("parsing distance %q: unknown unit %q", s, suffix)
}
