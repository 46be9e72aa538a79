package content

import "time"

// RefreshEvent summarizes one completed refresh cycle
type RefreshEvent struct {
	SnapshotID string         `json:"snapshotId,omitempty"`
	Reason     SnapshotReason `json:"reason"`
	FetchedAt  time.Time      `json:"fetchedAt"`
	PostCount  int            `json:"postCount"`
	Sources    []SourceStatus `json:"sources"`
	TopPosts   []ScoredPost   `json:"topPosts"`
}
