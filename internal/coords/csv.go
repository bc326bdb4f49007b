// Package coords provides the coordinate tables a station catalog reads
// antenna positions from: CSV files on disk, in S3 or behind an HTTP
// server, and an in-memory table.
package coords

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/models"
)

const (
	nameColumn = "#SB-Antenna"
	xColumn    = "ECEF-X"
	yColumn    = "ECEF-Y"
	zColumn    = "ECEF-Z"
)

// FileName returns the table file name for a station, e.g.
// "S8-1_coordinates.csv".
func FileName(station string) string {
	return station + "_coordinates.csv"
}

// ParseCSV reads a coordinate table. Lines before the header row (the one
// whose first field is "#SB-Antenna") are skipped. Extra columns are
// ignored. Row order is preserved.
func ParseCSV(station string, r io.Reader) ([]models.AntennaRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var cols map[string]int
	var rows []models.AntennaRecord
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, models.NewTableError(station, "reading CSV", err)
		}

		if cols == nil {
			if strings.TrimSpace(record[0]) == nameColumn {
				if cols, err = headerColumns(station, record); err != nil {
					return nil, err
				}
			}
			continue
		}

		line, _ := reader.FieldPos(0)
		row, err := parseRow(station, line, record, cols)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	if cols == nil {
		return nil, models.NewTableError(station, fmt.Sprintf("missing %s header", nameColumn), nil)
	}
	return rows, nil
}

func headerColumns(station string, header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	for _, want := range []string{nameColumn, xColumn, yColumn, zColumn} {
		if _, ok := cols[want]; !ok {
			return nil, models.NewTableError(station, fmt.Sprintf("missing column %s", want), nil)
		}
	}
	return cols, nil
}

func parseRow(station string, line int, record []string, cols map[string]int) (models.AntennaRecord, error) {
	field := func(name string) (string, error) {
		i := cols[name]
		if i >= len(record) {
			return "", models.NewTableError(station, fmt.Sprintf("line %d: missing %s", line, name), nil)
		}
		return strings.TrimSpace(record[i]), nil
	}
	number := func(name string) (float64, error) {
		s, err := field(name)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, models.NewTableError(station, fmt.Sprintf("line %d: bad %s", line, name), err)
		}
		return v, nil
	}

	var rec models.AntennaRecord
	var err error
	if rec.Name, err = field(nameColumn); err != nil {
		return rec, err
	}
	if rec.Geocentric.X, err = number(xColumn); err != nil {
		return rec, err
	}
	if rec.Geocentric.Y, err = number(yColumn); err != nil {
		return rec, err
	}
	if rec.Geocentric.Z, err = number(zColumn); err != nil {
		return rec, err
	}
	return rec, nil
}

// WriteCSV writes rows in the format ParseCSV reads.
func WriteCSV(w io.Writer, station string, rows []models.AntennaRecord) error {
	if _, err := fmt.Fprintf(w, "# LFAA coordinates for station %s\n", station); err != nil {
		return err
	}
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{nameColumn, xColumn, yColumn, zColumn}); err != nil {
		return err
	}
	for _, r := range rows {
		err := writer.Write([]string{
			r.Name,
			strconv.FormatFloat(r.Geocentric.X, 'f', 4, 64),
			strconv.FormatFloat(r.Geocentric.Y, 'f', 4, 64),
			strconv.FormatFloat(r.Geocentric.Z, 'f', 4, 64),
		})
		if err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
