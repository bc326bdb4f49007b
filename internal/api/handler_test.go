package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/models"
)

func TestSuccess(t *testing.T) {
	tests := []struct {
		name     string
		response interface{ GetResponseType() string }
		want     int
	}{
		{
			name:     "stations response",
			response: NewStationsListResponse([]string{"S8-1", "S8-6"}),
			want:     http.StatusOK,
		},
		{
			name:     "selection response",
			response: NewSelectionResponse("S8-1", OpFilter, nil),
			want:     http.StatusOK,
		},
		{
			name:     "error response",
			response: NewErrorResponse("test error"),
			want:     http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Success(tt.response)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.StatusCode)

			var resp APIResponse
			require.NoError(t, json.Unmarshal([]byte(got.Body), &resp))
			assert.Equal(t, tt.response.GetResponseType(), resp.ResponseType)

			assert.Equal(t, "application/json", got.Headers["Content-Type"])
			assert.Equal(t, "*", got.Headers["Access-Control-Allow-Origin"])
		})
	}
}

func TestSuccessUnmarshalable(t *testing.T) {
	got, err := Success(map[string]interface{}{"bad": make(chan int)})
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, got.StatusCode)
}

func TestError(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		statusCode int
	}{
		{name: "bad request", message: "test error", statusCode: http.StatusBadRequest},
		{name: "not found", message: "station not found", statusCode: http.StatusNotFound},
		{name: "server error", message: "internal server error", statusCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Error(tt.message, tt.statusCode)
			require.NoError(t, err)
			assert.Equal(t, tt.statusCode, got.StatusCode)

			var errorResp ErrorResponse
			require.NoError(t, json.Unmarshal([]byte(got.Body), &errorResp))
			assert.Equal(t, TypeError, errorResp.ResponseType)
			assert.Equal(t, tt.message, errorResp.Error)
		})
	}
}

func TestNewStationResponse(t *testing.T) {
	layout := models.Layout{
		DisplayName: "S8-1",
		RotationDeg: 45,
		Names:       []string{"SB01-01", "SB01-02"},
		Local:       []models.ENU{{E: 1, N: 2, U: 0.1}, {E: -3, N: 4}},
	}
	info := StationInfo{Name: "S8-1", Kind: "full", Parent: "S8-1", RotationDeg: 45, Size: 2}

	resp := NewStationResponse(info, layout)

	assert.Equal(t, TypeStation, resp.ResponseType)
	require.Len(t, resp.Antennas, 2)
	assert.Equal(t, AntennaPosition{Name: "SB01-02", ENU: models.ENU{E: -3, N: 4}}, resp.Antennas[1])

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"name":"SB01-01","enu":{"east":1,"north":2,"up":0.1}`)
}

func TestNewSelectionResponseEmpty(t *testing.T) {
	body, err := json.Marshal(NewSelectionResponse("S8-1", OpNeighbours, nil))
	require.NoError(t, err)
	assert.Contains(t, string(body), `"antennas":[]`)
}
