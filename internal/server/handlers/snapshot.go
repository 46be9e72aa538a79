// internal/server/handlers/snapshot.go

package handlers

import (
	"context"
	"net/http"
	"time"

	"contentradar/internal/domain/content"
)

// SnapshotReader reads persisted snapshot state
type SnapshotReader interface {
	Load(ctx context.Context) content.SnapshotState
}

// SnapshotHandler reports on stored counter history
type SnapshotHandler struct {
	store SnapshotReader
}

// NewSnapshotHandler creates a new snapshot handler
func NewSnapshotHandler(store SnapshotReader) *SnapshotHandler {
	return &SnapshotHandler{
		store: store,
	}
}

type snapshotsResponse struct {
	Count     int        `json:"count"`
	LastFetch *time.Time `json:"lastFetch"`
	Oldest    string     `json:"oldest,omitempty"`
	Newest    string     `json:"newest,omitempty"`
}

// GetSnapshots returns the retained entry count and date range
func (h *SnapshotHandler) GetSnapshots(w http.ResponseWriter, r *http.Request) {
	state := h.store.Load(r.Context())

	resp := snapshotsResponse{
		Count:     len(state.Snapshots),
		LastFetch: state.LastFetch,
	}
	if n := len(state.Snapshots); n > 0 {
		resp.Oldest = state.Snapshots[0].Date
		resp.Newest = state.Snapshots[n-1].Date
	}

	respondWithJSON(w, http.StatusOK, resp)
}
