package models

import (
	"fmt"
	"math"
)

// Geocentric is an Earth-Centred Earth-Fixed position in metres.
type Geocentric struct {
	X float64 `json:"x" yaml:"x" dynamodbav:"x"`
	Y float64 `json:"y" yaml:"y" dynamodbav:"y"`
	Z float64 `json:"z" yaml:"z" dynamodbav:"z"`
}

// Sub returns g - o.
func (g Geocentric) Sub(o Geocentric) Geocentric {
	return Geocentric{X: g.X - o.X, Y: g.Y - o.Y, Z: g.Z - o.Z}
}

// Norm returns the Euclidean length of the vector.
func (g Geocentric) Norm() float64 {
	return math.Sqrt(g.X*g.X + g.Y*g.Y + g.Z*g.Z)
}

func (g Geocentric) String() string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", g.X, g.Y, g.Z)
}

// ENU is a position in a local East-North-Up frame, in metres.
type ENU struct {
	E float64 `json:"east"`
	N float64 `json:"north"`
	U float64 `json:"up"`
}

// Planar drops the Up component.
func (p ENU) Planar() Planar {
	return Planar{E: p.E, N: p.N}
}

// Planar is a point on the local East-North plane.
type Planar struct {
	E float64 `json:"east"`
	N float64 `json:"north"`
}

// DistanceTo returns the planar Euclidean distance between two points.
func (p Planar) DistanceTo(o Planar) float64 {
	return math.Hypot(p.E-o.E, p.N-o.N)
}

// AntennaRecord is one LFAA element as it appears in a coordinate table.
type AntennaRecord struct {
	Name       string     `json:"name"`
	Geocentric Geocentric `json:"geocentric"`
}
