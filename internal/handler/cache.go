package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// CacheControl exposes the coordinate table cache. *service.Builder
// satisfies it.
type CacheControl interface {
	CacheStats() map[string]uint64
	ClearCache()
}

// CacheHandler reports the cache counters on GET and empties the cache on
// DELETE.
type CacheHandler struct {
	cache CacheControl
}

func NewCacheHandler(cache CacheControl) *CacheHandler {
	return &CacheHandler{cache: cache}
}

type cacheStatus struct {
	Enabled bool              `json:"enabled"`
	Stats   map[string]uint64 `json:"stats,omitempty"`
}

func (h *CacheHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		stats := h.cache.CacheStats()
		body, err := json.Marshal(cacheStatus{Enabled: stats != nil, Stats: stats})
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(body); err != nil {
			log.Debug().Err(err).Msg("Failed to write response")
		}
	case http.MethodDelete:
		h.cache.ClearCache()
		w.WriteHeader(http.StatusNoContent)
	default:
		w.Header().Set("Allow", "GET, DELETE")
		http.Error(w, "Only GET and DELETE methods are allowed", http.StatusMethodNotAllowed)
	}
}
