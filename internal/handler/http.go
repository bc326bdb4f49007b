package handler

import (
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"
)

// HTTPHandler serves a StationsHandler over plain net/http by translating
// each request into an API Gateway proxy event.
type HTTPHandler struct {
	stations *StationsHandler
}

func NewHTTPHandler(stations *StationsHandler) *HTTPHandler {
	return &HTTPHandler{stations: stations}
}

func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Only GET method is allowed", http.StatusMethodNotAllowed)
		return
	}

	params := make(map[string]string, len(r.URL.Query()))
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	headers := make(map[string]string, len(r.Header))
	for key := range r.Header {
		headers[key] = r.Header.Get(key)
	}

	resp, err := h.stations.HandleRequest(r.Context(), events.APIGatewayProxyRequest{
		HTTPMethod:            r.Method,
		Path:                  r.URL.Path,
		Headers:               headers,
		QueryStringParameters: params,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to handle request")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := w.Write([]byte(resp.Body)); err != nil {
		log.Debug().Err(err).Msg("Failed to write response")
	}
}
