package models

import "fmt"

// Kind distinguishes a full station from a substation carved out of one.
type Kind int

const (
	KindFull Kind = iota
	KindSub
)

// SubstationType is the station type string that requests a substation.
const SubstationType = "substation"

func (k Kind) String() string {
	switch k {
	case KindFull:
		return "full"
	case KindSub:
		return SubstationType
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// StationReference holds the per-station constants supplied by the array
// configuration. RotationDeg is only used for display.
type StationReference struct {
	Name        string     `json:"name" yaml:"name"`
	Point       Geocentric `json:"reference" yaml:"reference"`
	RotationDeg float64    `json:"rotationDeg" yaml:"rotation_deg"`
}

// Layout is everything a renderer needs to draw a station.
type Layout struct {
	DisplayName string
	RotationDeg float64
	Names       []string
	Local       []ENU
}
