// internal/adapter/storage/archive_pg.go

package storage

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v4/pgxpool"

	"contentradar/internal/domain/content"
)

// PostgresArchiver stores snapshot archives in the snapshot_archive table
type PostgresArchiver struct {
	db *pgxpool.Pool
}

// NewPostgresArchiver creates a new Postgres archiver
func NewPostgresArchiver(db *pgxpool.Pool) *PostgresArchiver {
	return &PostgresArchiver{
		db: db,
	}
}

// EnsureSchema creates the archive table when it does not exist
func (a *PostgresArchiver) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS snapshot_archive (
			snapshot_id TEXT PRIMARY KEY,
			reason      TEXT NOT NULL,
			saved_at    TIMESTAMPTZ NOT NULL,
			fetched_at  TIMESTAMPTZ NOT NULL,
			post_count  INTEGER NOT NULL,
			sources     JSONB NOT NULL,
			posts       JSONB NOT NULL
		)
	`

	if _, err := a.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("error creating snapshot_archive: %w", err)
	}

	return nil
}

// Archive inserts or replaces the archive row for the record
func (a *PostgresArchiver) Archive(ctx context.Context, record content.ArchiveRecord) (string, error) {
	query := `
		INSERT INTO snapshot_archive (
			snapshot_id, reason, saved_at, fetched_at, post_count, sources, posts
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
		ON CONFLICT (snapshot_id) DO UPDATE
		SET
			reason = $2,
			saved_at = $3,
			fetched_at = $4,
			post_count = $5,
			sources = $6,
			posts = $7
	`

	sourcesJSON, err := json.Marshal(record.Sources)
	if err != nil {
		return "", fmt.Errorf("error marshaling sources: %w", err)
	}

	postsJSON, err := json.Marshal(record.Posts)
	if err != nil {
		return "", fmt.Errorf("error marshaling posts: %w", err)
	}

	_, err = a.db.Exec(
		ctx,
		query,
		record.SnapshotID,
		string(record.Reason),
		record.SavedAt,
		record.FetchedAt,
		record.PostCount,
		sourcesJSON,
		postsJSON,
	)
	if err != nil {
		return "", fmt.Errorf("error executing query: %w", err)
	}

	return "snapshot_archive/" + record.SnapshotID, nil
}
