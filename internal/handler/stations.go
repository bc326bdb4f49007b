package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/api"
	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/models"
	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/station"
)

// StationBuilder builds stations and records query outcomes.
type StationBuilder interface {
	Build(ctx context.Context, spec station.Spec) (*station.Station, error)
	ValidStations(ctx context.Context) ([]string, error)
	ObserveQuery(op string, err error)
}

type StationsHandler struct {
	builder StationBuilder
}

func NewStationsHandler(builder StationBuilder) *StationsHandler {
	return &StationsHandler{
		builder: builder,
	}
}

func (h *StationsHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	params := request.QueryStringParameters
	if params == nil {
		params = map[string]string{}
	}

	op, err := api.ParseOp(params)
	if err != nil {
		return errorResponse(err)
	}

	body, err := h.run(ctx, op, params)
	h.builder.ObserveQuery(op, err)
	if err != nil {
		return errorResponse(err)
	}
	return api.Success(body)
}

func (h *StationsHandler) run(ctx context.Context, op string, params map[string]string) (interface{}, error) {
	if op == api.OpStations {
		names, err := h.builder.ValidStations(ctx)
		if err != nil {
			return nil, err
		}
		return api.NewStationsListResponse(names), nil
	}

	spec, err := api.ParseSpec(params)
	if err != nil {
		return nil, err
	}
	st, err := h.builder.Build(ctx, spec)
	if err != nil {
		return nil, err
	}

	switch op {
	case api.OpFilter:
		return filter(st, params)
	case api.OpNeighbours:
		return neighbours(st, params)
	case api.OpCoordinates:
		names := station.ParseNames(params["names"])
		if len(names) == 0 {
			names = st.Names()
		}
		records, err := st.Coordinates(names)
		if err != nil {
			return nil, err
		}
		return api.NewCoordinatesResponse(st.Name(), records), nil
	default:
		ref := st.Reference()
		info := api.StationInfo{
			Name:        st.Name(),
			Kind:        st.Kind().String(),
			Parent:      st.CanonicalName(),
			RotationDeg: ref.RotationDeg,
			Reference:   ref.Point,
			Size:        st.Len(),
		}
		return api.NewStationResponse(info, st.Layout()), nil
	}
}

func filter(st *station.Station, params map[string]string) (interface{}, error) {
	radius, err := api.ParseDistance(params, "distance")
	if err != nil {
		return nil, err
	}
	invert, err := api.ParseBool(params, "invert")
	if err != nil {
		return nil, err
	}
	center, err := api.ParseCenter(params)
	if err != nil {
		return nil, err
	}
	names, err := st.FilterByRadius(center, radius, invert)
	if err != nil {
		return nil, err
	}
	return api.NewSelectionResponse(st.Name(), api.OpFilter, names), nil
}

func neighbours(st *station.Station, params map[string]string) (interface{}, error) {
	ref, err := api.ParseRequired(params, "ref")
	if err != nil {
		return nil, err
	}
	radius, err := api.ParseDistance(params, "distance")
	if err != nil {
		return nil, err
	}
	names, err := st.Neighbours(ref, radius)
	if err != nil {
		return nil, err
	}
	return api.NewSelectionResponse(st.Name(), api.OpNeighbours, names), nil
}

// StatusFor maps an error to the HTTP status reported to the caller.
func StatusFor(err error) int {
	var (
		unknownStation *models.UnknownStationError
		emptySelection *models.EmptySelectionError
		unknownAntenna *models.UnknownAntennaError
		badUnit        *models.IncompatibleUnitError
		badParam       api.InvalidParameterError
	)
	switch {
	case errors.As(err, &unknownStation):
		return http.StatusNotFound
	case errors.As(err, &emptySelection),
		errors.As(err, &unknownAntenna),
		errors.As(err, &badUnit),
		errors.As(err, &badParam):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func errorResponse(err error) (events.APIGatewayProxyResponse, error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("Error handling station request")
		return api.Error("Error loading station", status)
	}
	return api.Error(err.Error(), status)
}
