package api

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/models"
)

// Response types.
const (
	TypeStation     = "station"
	TypeSelection   = "selection"
	TypeCoordinates = "coordinates"
	TypeStations    = "stations"
	TypeError       = "error"
)

type APIResponse struct {
	ResponseType string `json:"responseType"`
}

func (r APIResponse) GetResponseType() string {
	return r.ResponseType
}

// StationInfo describes a loaded station.
type StationInfo struct {
	Name        string            `json:"name"`
	Kind        string            `json:"kind"`
	Parent      string            `json:"parent"`
	RotationDeg float64           `json:"rotationDeg"`
	Reference   models.Geocentric `json:"reference"`
	Size        int               `json:"size"`
}

// AntennaPosition is one antenna in the station's local frame.
type AntennaPosition struct {
	Name string     `json:"name"`
	ENU  models.ENU `json:"enu"`
}

type StationResponse struct {
	APIResponse
	Station  StationInfo       `json:"station"`
	Antennas []AntennaPosition `json:"antennas"`
}

type SelectionResponse struct {
	APIResponse
	Station  string   `json:"station"`
	Op       string   `json:"op"`
	Antennas []string `json:"antennas"`
}

type CoordinatesResponse struct {
	APIResponse
	Station     string                 `json:"station"`
	Coordinates []models.AntennaRecord `json:"coordinates"`
}

type StationsListResponse struct {
	APIResponse
	Stations []string `json:"stations"`
}

type ErrorResponse struct {
	APIResponse
	Error string `json:"error"`
}

func NewStationResponse(info StationInfo, layout models.Layout) *StationResponse {
	antennas := make([]AntennaPosition, len(layout.Names))
	for i, name := range layout.Names {
		antennas[i] = AntennaPosition{Name: name, ENU: layout.Local[i]}
	}
	return &StationResponse{
		APIResponse: APIResponse{ResponseType: TypeStation},
		Station:     info,
		Antennas:    antennas,
	}
}

func NewSelectionResponse(station, op string, antennas []string) *SelectionResponse {
	if antennas == nil {
		antennas = []string{}
	}
	return &SelectionResponse{
		APIResponse: APIResponse{ResponseType: TypeSelection},
		Station:     station,
		Op:          op,
		Antennas:    antennas,
	}
}

func NewCoordinatesResponse(station string, coordinates []models.AntennaRecord) *CoordinatesResponse {
	return &CoordinatesResponse{
		APIResponse: APIResponse{ResponseType: TypeCoordinates},
		Station:     station,
		Coordinates: coordinates,
	}
}

func NewStationsListResponse(stations []string) *StationsListResponse {
	return &StationsListResponse{
		APIResponse: APIResponse{ResponseType: TypeStations},
		Stations:    stations,
	}
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		APIResponse: APIResponse{ResponseType: TypeError},
		Error:       message,
	}
}

// Response helpers
func Success(body interface{}) (events.APIGatewayProxyResponse, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return Error("Internal Server Error", http.StatusInternalServerError)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(jsonBody),
	}, nil
}

func Error(message string, statusCode int) (events.APIGatewayProxyResponse, error) {
	body, _ := json.Marshal(NewErrorResponse(message))

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(body),
	}, nil
}
