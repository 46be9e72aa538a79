// internal/adapter/storage/snapshot_store.go

package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"contentradar/internal/domain/content"
	"contentradar/internal/logging"
	"contentradar/internal/metrics"
)

// ErrStoreClosed is returned for saves submitted after Close
var ErrStoreClosed = errors.New("snapshot store closed")

// entryDateLayout is fixed width so entry dates also sort as text
const entryDateLayout = "2006-01-02T15:04:05.000Z07:00"

// SnapshotStoreConfig holds snapshot store configuration
type SnapshotStoreConfig struct {
	StatePath string
	Retention time.Duration
	QueueSize int
}

// SnapshotStore persists counter history in a single state file.
// Saves are executed one at a time, in submission order, by a single goroutine.
type SnapshotStore struct {
	config   SnapshotStoreConfig
	archiver content.Archiver
	logger   zerolog.Logger
	now      func() time.Time

	queue  chan saveRequest
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
}

type saveRequest struct {
	ctx    context.Context
	batch  content.SnapshotBatch
	reason content.SnapshotReason
	reply  chan saveReply
}

type saveReply struct {
	result content.SaveResult
	err    error
}

// NewSnapshotStore creates a snapshot store and starts its save queue
func NewSnapshotStore(config SnapshotStoreConfig, archiver content.Archiver) *SnapshotStore {
	return newSnapshotStore(config, archiver, time.Now)
}

func newSnapshotStore(config SnapshotStoreConfig, archiver content.Archiver, now func() time.Time) *SnapshotStore {
	if config.QueueSize <= 0 {
		config.QueueSize = 16
	}
	if config.Retention <= 0 {
		config.Retention = 90 * 24 * time.Hour
	}

	s := &SnapshotStore{
		config:   config,
		archiver: archiver,
		logger:   logging.With("snapshot_store"),
		now:      now,
		queue:    make(chan saveRequest, config.QueueSize),
		done:     make(chan struct{}),
	}

	go s.run()

	return s
}

// Load returns the persisted state. A missing or corrupted file yields an empty state.
func (s *SnapshotStore) Load(ctx context.Context) content.SnapshotState {
	state := content.SnapshotState{Snapshots: []content.SnapshotEntry{}}

	data, err := os.ReadFile(s.config.StatePath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn().Err(err).Str("path", s.config.StatePath).Msg("unable to read snapshot state, using empty history")
		}
		return state
	}

	if err := json.Unmarshal(data, &state); err != nil {
		s.logger.Warn().Err(err).Str("path", s.config.StatePath).Msg("corrupted snapshot state, using empty history")
		return content.SnapshotState{Snapshots: []content.SnapshotEntry{}}
	}

	if state.Snapshots == nil {
		state.Snapshots = []content.SnapshotEntry{}
	}

	return state
}

// SaveSnapshot queues a save and waits for its result
func (s *SnapshotStore) SaveSnapshot(
	ctx context.Context,
	batch content.SnapshotBatch,
	reason content.SnapshotReason,
) (content.SaveResult, error) {
	req := saveRequest{
		ctx:    ctx,
		batch:  batch,
		reason: reason,
		reply:  make(chan saveReply, 1),
	}

	if err := ctx.Err(); err != nil {
		return content.SaveResult{}, err
	}

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return content.SaveResult{}, ErrStoreClosed
	}
	select {
	case s.queue <- req:
		s.mu.RUnlock()
	case <-ctx.Done():
		s.mu.RUnlock()
		return content.SaveResult{}, ctx.Err()
	}

	// an accepted request always gets a reply matching what was written
	reply := <-req.reply
	return reply.result, reply.err
}

// Close stops accepting saves and waits for queued saves to finish
func (s *SnapshotStore) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()

	<-s.done
}

// run is the single writer of the state file
func (s *SnapshotStore) run() {
	defer close(s.done)

	for req := range s.queue {
		result, err := s.process(req)
		req.reply <- saveReply{result: result, err: err}
	}
}

func (s *SnapshotStore) process(req saveRequest) (result content.SaveResult, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("snapshot save panicked: %v", r)
		}
		outcome := "success"
		if err != nil {
			outcome = "error"
			s.logger.Error().Err(err).Msg("snapshot save failed")
		}
		metrics.SnapshotSaves.WithLabelValues(outcome).Inc()
		metrics.SnapshotSaveDuration.Observe(time.Since(start).Seconds())
	}()

	if err := req.ctx.Err(); err != nil {
		return content.SaveResult{}, fmt.Errorf("snapshot save canceled before write: %w", err)
	}

	return s.save(req.ctx, req.batch, req.reason)
}

func (s *SnapshotStore) save(
	ctx context.Context,
	batch content.SnapshotBatch,
	reason content.SnapshotReason,
) (content.SaveResult, error) {
	now := s.now().UTC()
	state := s.Load(ctx)

	entry := content.SnapshotEntry{
		ID:     snapshotID(now),
		Date:   now.Format(entryDateLayout),
		Reason: reason,
		Posts:  make([]content.SnapshotPost, 0, len(batch.Posts)),
	}
	for _, p := range batch.Posts {
		if p.PostID == "" {
			continue
		}
		entry.Posts = append(entry.Posts, content.SnapshotPost{
			PostID:       p.PostID,
			ViewCount:    p.ViewCount,
			LikeCount:    p.LikeCount,
			CommentCount: p.CommentCount,
		})
	}

	fetchedAt := batch.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = now
	}

	state.Snapshots = PruneSnapshots(append(state.Snapshots, entry), now, s.config.Retention)
	state.LastFetch = &fetchedAt

	if err := writeJSONFile(s.config.StatePath, state); err != nil {
		return content.SaveResult{}, fmt.Errorf("error writing snapshot state: %w", err)
	}
	metrics.SnapshotEntries.Set(float64(len(state.Snapshots)))

	result := content.SaveResult{SnapshotID: entry.ID}
	if s.archiver == nil {
		return result, nil
	}

	path, err := s.archiver.Archive(ctx, content.ArchiveRecord{
		SnapshotID: entry.ID,
		Reason:     reason,
		SavedAt:    now,
		FetchedAt:  fetchedAt,
		Sources:    batch.Sources,
		PostCount:  len(batch.Posts),
		Posts:      batch.Posts,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("snapshot_id", entry.ID).Msg("snapshot archive write failed")
		result.Error = err.Error()
		return result, nil
	}

	result.Path = path
	return result, nil
}

// PruneSnapshots drops entries older than the retention window.
// Entries whose date cannot be parsed are kept.
func PruneSnapshots(entries []content.SnapshotEntry, now time.Time, retention time.Duration) []content.SnapshotEntry {
	cutoff := now.Add(-retention)
	kept := make([]content.SnapshotEntry, 0, len(entries))

	for _, e := range entries {
		date, err := time.Parse(time.RFC3339Nano, e.Date)
		if err != nil || !date.Before(cutoff) {
			kept = append(kept, e)
		}
	}

	return kept
}

// BuildSnapshotMap indexes view counts by post id, in entry order
func BuildSnapshotMap(entries []content.SnapshotEntry) content.SnapshotMap {
	m := make(content.SnapshotMap)

	for _, e := range entries {
		for _, p := range e.Posts {
			if p.PostID == "" {
				continue
			}
			m[p.PostID] = append(m[p.PostID], content.HistoryPoint{
				Date:      e.Date,
				ViewCount: p.ViewCount,
			})
		}
	}

	return m
}

// snapshotID derives a sortable identifier from the save time
func snapshotID(t time.Time) string {
	return fmt.Sprintf("%s-%s", t.Format("20060102T150405.000Z"), uuid.New().String()[:8])
}

// writeJSONFile replaces path atomically with the JSON encoding of v
func writeJSONFile(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("error creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("error writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("error closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("error replacing file: %w", err)
	}

	return nil
}
