// internal/domain/content/ports.go

package content

import (
	"context"
)

// Fetcher defines a platform data source
type Fetcher interface {
	// Source returns the platform this fetcher reads from
	Source() Source

	// Fetch returns the current posts of the platform.
	// Recoverable per-item problems are reported in FetchResult.Errors.
	Fetch(ctx context.Context) (FetchResult, error)
}

// Archiver keeps a detailed copy of each snapshot cycle
type Archiver interface {
	// Archive stores the record and returns where it was written
	Archive(ctx context.Context, record ArchiveRecord) (string, error)
}

// SnapshotRepository defines durable storage for counter history
type SnapshotRepository interface {
	// Load returns the persisted state, or an empty state when none is readable
	Load(ctx context.Context) SnapshotState

	// SaveSnapshot appends a snapshot entry for the batch and prunes expired entries
	SaveSnapshot(ctx context.Context, batch SnapshotBatch, reason SnapshotReason) (SaveResult, error)
}

// EventPublisher announces finished refresh cycles
type EventPublisher interface {
	PublishRefreshed(ctx context.Context, event RefreshEvent) error
	PublishSignal(ctx context.Context, signal TopicSignal) error
}
