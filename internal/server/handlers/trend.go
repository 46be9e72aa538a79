// internal/server/handlers/trend.go

package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"contentradar/internal/domain/content"
	"contentradar/internal/service/listening"
)

// TrendService is the orchestration surface the handlers read from
type TrendService interface {
	Latest(ctx context.Context) (*listening.Result, error)
	Refresh(ctx context.Context, reason content.SnapshotReason) (*listening.Result, error)
}

// TrendHandler handles trend-related HTTP requests
type TrendHandler struct {
	service TrendService
}

// NewTrendHandler creates a new trend handler
func NewTrendHandler(service TrendService) *TrendHandler {
	return &TrendHandler{
		service: service,
	}
}

type trendsResponse struct {
	Posts      []content.ScoredPost   `json:"posts"`
	Total      int                    `json:"total"`
	Sources    []content.SourceStatus `json:"sources"`
	FetchedAt  time.Time              `json:"fetchedAt"`
	SnapshotID string                 `json:"snapshotId,omitempty"`
}

type signalsResponse struct {
	Signals   []content.TopicSignal    `json:"signals"`
	Portfolio []content.PortfolioEntry `json:"portfolio"`
	FetchedAt time.Time                `json:"fetchedAt"`
}

type analysisResponse struct {
	Trends    []content.TrendResult `json:"trends"`
	FetchedAt time.Time             `json:"fetchedAt"`
}

// GetTrends returns scored posts, optionally filtered by source and topic
func (h *TrendHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	source := content.Source(query.Get("source"))
	if source != "" && !source.Valid() {
		respondWithError(w, http.StatusBadRequest, "Unknown source", nil)
		return
	}

	limit := 0
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = n
	}

	result, err := h.service.Latest(r.Context())
	if err != nil {
		respondWithRefreshError(w, err)
		return
	}

	topic := query.Get("topic")
	posts := make([]content.ScoredPost, 0, len(result.Posts))
	for _, p := range result.Posts {
		if source != "" && p.Source != source {
			continue
		}
		if topic != "" && p.Topic != topic {
			continue
		}
		posts = append(posts, p)
	}
	total := len(posts)
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}

	respondWithJSON(w, http.StatusOK, trendsResponse{
		Posts:      posts,
		Total:      total,
		Sources:    result.Sources,
		FetchedAt:  result.FetchedAt,
		SnapshotID: result.SnapshotID,
	})
}

// RefreshTrends runs a manual refresh cycle
func (h *TrendHandler) RefreshTrends(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Refresh(r.Context(), content.ReasonManual)
	if err != nil {
		respondWithRefreshError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, trendsResponse{
		Posts:      result.Posts,
		Total:      len(result.Posts),
		Sources:    result.Sources,
		FetchedAt:  result.FetchedAt,
		SnapshotID: result.SnapshotID,
	})
}

// GetSignals returns strategy signals and the topic portfolio
func (h *TrendHandler) GetSignals(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Latest(r.Context())
	if err != nil {
		respondWithRefreshError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, signalsResponse{
		Signals:   result.Advice.Signals,
		Portfolio: result.Advice.Portfolio,
		FetchedAt: result.FetchedAt,
	})
}

// GetAnalysis returns per-post velocity, engagement and crossover results
func (h *TrendHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Latest(r.Context())
	if err != nil {
		respondWithRefreshError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, analysisResponse{
		Trends:    result.Trends,
		FetchedAt: result.FetchedAt,
	})
}
