// internal/server/handlers/response.go

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"contentradar/internal/logging"
	"contentradar/internal/service/listening"
)

// retryAfterSeconds is advertised when a refresh is already running
const retryAfterSeconds = 5

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logging.Error().Err(err).Msg("failed to marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	if err != nil && code >= 500 {
		logging.Error().Err(err).Int("code", code).Msg(message)
	}

	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithRefreshError maps orchestration errors to status codes
func respondWithRefreshError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, listening.ErrRefreshInProgress):
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
		respondWithError(w, http.StatusConflict, "Refresh already in progress", err)
	case errors.Is(err, listening.ErrNoData):
		respondWithError(w, http.StatusServiceUnavailable, "No data available from any source", err)
	default:
		respondWithError(w, http.StatusInternalServerError, "Failed to refresh trends", err)
	}
}
