package content

import (
	"time"
)

// SnapshotReason records what triggered a refresh cycle
type SnapshotReason string

const (
	ReasonManual SnapshotReason = "manual"
	ReasonCron   SnapshotReason = "cron"
)

// SnapshotPost holds the counters of one post at snapshot time
type SnapshotPost struct {
	PostID       string `json:"postId"`
	ViewCount    int64  `json:"viewCount"`
	LikeCount    int64  `json:"likeCount"`
	CommentCount int64  `json:"commentCount"`
}

// SnapshotEntry is the persisted record of one refresh cycle.
// Date is kept as text so that malformed entries survive a round trip.
type SnapshotEntry struct {
	ID     string         `json:"id"`
	Date   string         `json:"date"`
	Reason SnapshotReason `json:"reason"`
	Posts  []SnapshotPost `json:"posts"`
}

// SnapshotState is the primary persisted state
type SnapshotState struct {
	Snapshots []SnapshotEntry `json:"snapshots"`
	LastFetch *time.Time      `json:"lastFetch"`
}

// HistoryPoint is one point in a post's counter history
type HistoryPoint struct {
	Date      string `json:"date"`
	ViewCount int64  `json:"viewCount"`
}

// SnapshotMap indexes counter history by post id
type SnapshotMap map[string][]HistoryPoint

// SourceStatus is the per-cycle health of one source
type SourceStatus struct {
	Source    Source `json:"source"`
	PostCount int    `json:"postCount"`
	Error     string `json:"error,omitempty"`
}

// FetchError annotates a failure inside a source fetch
type FetchError struct {
	Source  Source `json:"source"`
	Message string `json:"message"`
}

// FetchResult is the uniform output of a platform fetcher
type FetchResult struct {
	Source    Source       `json:"source"`
	Posts     []Post       `json:"posts"`
	Errors    []FetchError `json:"errors"`
	FetchedAt time.Time    `json:"fetchedAt"`
}

// SnapshotBatch is the data handed to the store at the end of a refresh
type SnapshotBatch struct {
	Posts     []Post
	Sources   []SourceStatus
	FetchedAt time.Time
}

// ArchiveRecord is the detailed per-cycle copy kept by an archiver
type ArchiveRecord struct {
	SnapshotID string         `json:"snapshotId"`
	Reason     SnapshotReason `json:"reason"`
	SavedAt    time.Time      `json:"savedAt"`
	FetchedAt  time.Time      `json:"fetchedAt"`
	Sources    []SourceStatus `json:"sources"`
	PostCount  int            `json:"postCount"`
	Posts      []Post         `json:"posts"`
}

// SaveResult reports the outcome of a snapshot save.
// Path is empty and Error set when only the archival write failed.
type SaveResult struct {
	SnapshotID string `json:"snapshotId"`
	Path       string `json:"path,omitempty"`
	Error      string `json:"error,omitempty"`
}
