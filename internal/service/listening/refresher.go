// internal/service/listening/refresher.go

package listening

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"contentradar/internal/adapter/storage"
	"contentradar/internal/domain/content"
	"contentradar/internal/logging"
	"contentradar/internal/metrics"
	"contentradar/internal/service/scoring"
	"contentradar/internal/service/strategy"
)

var (
	// ErrRefreshInProgress is returned when a refresh is requested while another one runs
	ErrRefreshInProgress = errors.New("refresh already in progress")

	// ErrNoData is returned when every source came back empty and at least one is required
	ErrNoData = errors.New("no posts from any source")
)

const (
	latestKey     = "latest"
	eventTopPosts = 10
)

// RefresherConfig contains configuration for the refresher
type RefresherConfig struct {
	SourceTimeout time.Duration
	CacheTTL      time.Duration
	RequireSource bool
}

// Result is the outcome of one refresh cycle
type Result struct {
	Posts      []content.ScoredPost   `json:"posts"`
	Trends     []content.TrendResult  `json:"trends"`
	Advice     content.Advice         `json:"advice"`
	Sources    []content.SourceStatus `json:"sources"`
	FetchedAt  time.Time              `json:"fetchedAt"`
	Reason     content.SnapshotReason `json:"reason"`
	SnapshotID string                 `json:"snapshotId,omitempty"`
}

// Refresher fetches every registered source, scores the merged batch,
// derives strategy signals and records a snapshot of the cycle.
type Refresher struct {
	fetchers  []content.Fetcher
	store     content.SnapshotRepository
	analyzer  *scoring.Analyzer
	scorer    *scoring.Scorer
	advisor   *strategy.Advisor
	publisher content.EventPublisher
	config    RefresherConfig
	logger    zerolog.Logger
	now       func() time.Time

	cache   *expirable.LRU[string, *Result]
	running atomic.Bool
	mu      sync.RWMutex
	last    *Result
}

// NewRefresher creates a new refresher. publisher may be nil.
func NewRefresher(
	store content.SnapshotRepository,
	analyzer *scoring.Analyzer,
	scorer *scoring.Scorer,
	advisor *strategy.Advisor,
	publisher content.EventPublisher,
	config RefresherConfig,
) *Refresher {
	return &Refresher{
		store:     store,
		analyzer:  analyzer,
		scorer:    scorer,
		advisor:   advisor,
		publisher: publisher,
		config:    config,
		logger:    logging.With("refresher"),
		now:       time.Now,
		cache:     expirable.NewLRU[string, *Result](1, nil, config.CacheTTL),
	}
}

// AddFetcher registers a source. Sources are merged in registration order.
func (r *Refresher) AddFetcher(f content.Fetcher) {
	r.fetchers = append(r.fetchers, f)
}

// Sources returns the registered sources in merge order
func (r *Refresher) Sources() []content.Source {
	sources := make([]content.Source, 0, len(r.fetchers))
	for _, f := range r.fetchers {
		sources = append(sources, f.Source())
	}
	return sources
}

// Latest returns the cached result, refreshing when it has expired.
// A non-positive CacheTTL disables the cache.
func (r *Refresher) Latest(ctx context.Context) (*Result, error) {
	if r.config.CacheTTL > 0 {
		if result, ok := r.cache.Get(latestKey); ok {
			metrics.CacheHits.Inc()
			return result, nil
		}
	}
	metrics.CacheMisses.Inc()

	result, err := r.Refresh(ctx, content.ReasonManual)
	if errors.Is(err, ErrRefreshInProgress) {
		// serve the previous cycle while the running one finishes
		if last := r.Last(); last != nil {
			return last, nil
		}
	}
	return result, err
}

// Last returns the most recent result regardless of cache expiry
func (r *Refresher) Last() *Result {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

// Refresh runs a full cycle. Only one cycle runs at a time.
func (r *Refresher) Refresh(ctx context.Context, reason content.SnapshotReason) (*Result, error) {
	if !r.running.CompareAndSwap(false, true) {
		metrics.RefreshesTotal.WithLabelValues(string(reason), "in_progress").Inc()
		return nil, ErrRefreshInProgress
	}
	defer r.running.Store(false)

	start := time.Now()
	result, err := r.refresh(ctx, reason)
	metrics.RefreshDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.RefreshesTotal.WithLabelValues(string(reason), "error").Inc()
		r.logger.Error().Err(err).Str("reason", string(reason)).Msg("refresh failed")
		return nil, err
	}
	metrics.RefreshesTotal.WithLabelValues(string(reason), "success").Inc()

	if r.config.CacheTTL > 0 {
		r.cache.Add(latestKey, result)
	}
	r.mu.Lock()
	r.last = result
	r.mu.Unlock()

	r.publish(ctx, result)

	r.logger.Info().
		Str("reason", string(reason)).
		Str("snapshot_id", result.SnapshotID).
		Int("posts", len(result.Posts)).
		Int("signals", len(result.Advice.Signals)).
		Dur("took", time.Since(start)).
		Msg("refresh completed")

	return result, nil
}

func (r *Refresher) refresh(ctx context.Context, reason content.SnapshotReason) (*Result, error) {
	fetchedAt := r.now().UTC()
	posts, sources := r.fetchAll(ctx)

	if len(posts) == 0 && r.config.RequireSource {
		return nil, ErrNoData
	}

	state := r.store.Load(ctx)
	snapshots := storage.BuildSnapshotMap(state.Snapshots)

	scored := r.scorer.ScoreAll(posts, snapshots)
	ranked := make([]content.Post, 0, len(scored))
	for _, sp := range scored {
		ranked = append(ranked, sp.Post)
	}
	trends := r.analyzer.AnalyzeAll(ranked, snapshots)
	advice := r.advisor.GenerateSignals(scored)
	metrics.ScoredPosts.Set(float64(len(scored)))

	result := &Result{
		Posts:     scored,
		Trends:    trends,
		Advice:    advice,
		Sources:   sources,
		FetchedAt: fetchedAt,
		Reason:    reason,
	}

	saved, err := r.store.SaveSnapshot(ctx, content.SnapshotBatch{
		Posts:     posts,
		Sources:   sources,
		FetchedAt: fetchedAt,
	}, reason)
	if err != nil {
		// scores are still valid without a persisted snapshot
		r.logger.Error().Err(err).Msg("failed to save snapshot")
	} else {
		result.SnapshotID = saved.SnapshotID
		if saved.Error != "" {
			r.logger.Warn().Str("snapshot_id", saved.SnapshotID).Str("error", saved.Error).Msg("snapshot archive failed")
		}
	}

	return result, nil
}

// fetchAll queries every source concurrently and merges the results
// in registration order, keeping the first post seen for each key.
func (r *Refresher) fetchAll(ctx context.Context) ([]content.Post, []content.SourceStatus) {
	results := make([]content.FetchResult, len(r.fetchers))
	errs := make([]error, len(r.fetchers))

	var g errgroup.Group
	for i, f := range r.fetchers {
		i, f := i, f
		g.Go(func() error {
			results[i], errs[i] = r.fetchOne(ctx, f)
			return nil
		})
	}
	_ = g.Wait()

	posts := []content.Post{}
	sources := make([]content.SourceStatus, 0, len(r.fetchers))
	seen := make(map[string]bool)

	for i, f := range r.fetchers {
		status := content.SourceStatus{Source: f.Source()}

		if errs[i] != nil {
			status.Error = errs[i].Error()
			metrics.SourceErrors.WithLabelValues(string(f.Source())).Inc()
			r.logger.Warn().Err(errs[i]).Str("source", string(f.Source())).Msg("source fetch failed")
		}
		for _, fe := range results[i].Errors {
			r.logger.Warn().Str("source", string(f.Source())).Str("error", fe.Message).Msg("source item skipped")
		}

		for _, p := range results[i].Posts {
			key := p.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			posts = append(posts, p)
			status.PostCount++
		}

		metrics.SourcePosts.WithLabelValues(string(f.Source())).Set(float64(status.PostCount))
		sources = append(sources, status)
	}

	return posts, sources
}

func (r *Refresher) fetchOne(ctx context.Context, f content.Fetcher) (result content.FetchResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = content.FetchResult{Source: f.Source()}
			err = fmt.Errorf("fetcher panicked: %v", rec)
		}
	}()

	if r.config.SourceTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.SourceTimeout)
		defer cancel()
	}

	result, err = f.Fetch(ctx)
	if err != nil {
		return content.FetchResult{Source: f.Source()}, fmt.Errorf("fetch %s: %w", f.Source(), err)
	}
	return result, nil
}

// publish announces the cycle and each signal. Failures are logged only.
func (r *Refresher) publish(ctx context.Context, result *Result) {
	if r.publisher == nil {
		return
	}

	top := result.Posts
	if len(top) > eventTopPosts {
		top = top[:eventTopPosts]
	}

	event := content.RefreshEvent{
		SnapshotID: result.SnapshotID,
		Reason:     result.Reason,
		FetchedAt:  result.FetchedAt,
		PostCount:  len(result.Posts),
		Sources:    result.Sources,
		TopPosts:   top,
	}
	if err := r.publisher.PublishRefreshed(ctx, event); err != nil {
		r.logger.Warn().Err(err).Msg("failed to publish refresh event")
	}

	for _, s := range result.Advice.Signals {
		if err := r.publisher.PublishSignal(ctx, s); err != nil {
			r.logger.Warn().Err(err).Str("topic", s.Topic).Msg("failed to publish signal")
		}
	}
}
