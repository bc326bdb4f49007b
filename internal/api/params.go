package api

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/unit"

	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/geometry"
	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/models"
	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/station"
)

// Operations.
const (
	OpLayout      = "layout"
	OpFilter      = "filter"
	OpNeighbours  = "neighbours"
	OpCoordinates = "coordinates"
	OpStations    = "stations"
)

var ops = []string{OpLayout, OpFilter, OpNeighbours, OpCoordinates, OpStations}

// InvalidParameterError reports a missing or malformed query parameter.
type InvalidParameterError struct {
	Name   string
	Reason string
}

func (e InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Name, e.Reason)
}

// ParseOp returns the requested operation, defaulting to layout.
func ParseOp(params map[string]string) (string, error) {
	op := strings.ToLower(strings.TrimSpace(params["op"]))
	if op == "" {
		return OpLayout, nil
	}
	for _, known := range ops {
		if op == known {
			return op, nil
		}
	}
	return "", InvalidParameterError{Name: "op", Reason: fmt.Sprintf("must be one of %s", strings.Join(ops, ", "))}
}

// ParseSpec builds the station Spec from the station, parent, name and lfaa
// parameters.
func ParseSpec(params map[string]string) (station.Spec, error) {
	stationType := strings.TrimSpace(params["station"])
	if stationType == "" {
		return station.Spec{}, InvalidParameterError{Name: "station", Reason: "required"}
	}
	return station.ParseSpec(stationType, strings.TrimSpace(params["parent"]), params["name"], params["lfaa"]), nil
}

// ParseDistance parses the named distance parameter, e.g. "10", "10m" or
// "0.01km". A non-length unit parses successfully and is rejected later
// as IncompatibleUnit.
func ParseDistance(params map[string]string, name string) (unit.Uniter, error) {
	raw, ok := params[name]
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, InvalidParameterError{Name: name, Reason: "required"}
	}
	d, err := geometry.ParseDistance(raw)
	if err != nil {
		return nil, InvalidParameterError{Name: name, Reason: err.Error()}
	}
	return d, nil
}

// ParseBool parses an optional boolean parameter.
func ParseBool(params map[string]string, name string) (bool, error) {
	raw, ok := params[name]
	if !ok || raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, InvalidParameterError{Name: name, Reason: "not a boolean"}
	}
	return v, nil
}

// ParseCenter parses the optional east and north parameters, in metres.
func ParseCenter(params map[string]string) (models.Planar, error) {
	var center models.Planar
	for name, dst := range map[string]*float64{"east": &center.E, "north": &center.N} {
		raw, ok := params[name]
		if !ok || raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return models.Planar{}, InvalidParameterError{Name: name, Reason: "not a number"}
		}
		*dst = v
	}
	return center, nil
}

// ParseRequired returns a required, non-blank parameter.
func ParseRequired(params map[string]string, name string) (string, error) {
	v := strings.TrimSpace(params[name])
	if v == "" {
		return "", InvalidParameterError{Name: name, Reason: "required"}
	}
	return v, nil
}
