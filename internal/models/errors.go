package models

import (
	"fmt"
	"strings"
)

// UnknownStationError is returned when a station name is not part of the
// array configuration.
type UnknownStationError struct {
	Name  string
	Valid []string
}

func (e *UnknownStationError) Error() string {
	if len(e.Valid) == 0 {
		return fmt.Sprintf("station type %s is invalid", e.Name)
	}
	return fmt.Sprintf("station type %s is invalid. Valid station types are %s",
		e.Name, strings.Join(e.Valid, ", "))
}

func NewUnknownStationError(name string, valid []string) *UnknownStationError {
	return &UnknownStationError{Name: name, Valid: valid}
}

// EmptySelectionError is returned when a selection pattern matches no
// antenna. Err is set when the pattern itself is malformed.
type EmptySelectionError struct {
	Pattern string
	Err     error
}

func (e *EmptySelectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s is not a valid selection string: %v", e.Pattern, e.Err)
	}
	return fmt.Sprintf("%s is not a valid selection string. Check your inputs.", e.Pattern)
}

func (e *EmptySelectionError) Unwrap() error {
	return e.Err
}

func NewEmptySelectionError(pattern string, err error) *EmptySelectionError {
	return &EmptySelectionError{Pattern: pattern, Err: err}
}

// UnknownAntennaError is returned when an antenna name is not a member of
// the station being queried.
type UnknownAntennaError struct {
	Name    string
	Station string
}

func (e *UnknownAntennaError) Error() string {
	return fmt.Sprintf("LFAA %s is not present in station %s", e.Name, e.Station)
}

func NewUnknownAntennaError(name, station string) *UnknownAntennaError {
	return &UnknownAntennaError{Name: name, Station: station}
}

// IncompatibleUnitError is returned when a distance is given in a unit that
// is not a length.
type IncompatibleUnitError struct {
	Value string
}

func (e *IncompatibleUnitError) Error() string {
	return fmt.Sprintf("input unit of distance is not equivalent to m: %s", e.Value)
}

func NewIncompatibleUnitError(value string) *IncompatibleUnitError {
	return &IncompatibleUnitError{Value: value}
}

// TableError reports bad data from a coordinate table or array
// configuration.
type TableError struct {
	Station string
	Message string
	Err     error
}

func (e *TableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("coordinate table for %s: %s: %v", e.Station, e.Message, e.Err)
	}
	return fmt.Sprintf("coordinate table for %s: %s", e.Station, e.Message)
}

func (e *TableError) Unwrap() error {
	return e.Err
}

func NewTableError(station, message string, err error) *TableError {
	return &TableError{Station: station, Message: message, Err: err}
}
