package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"contentradar/internal/domain/content"
)

// FileArchiver writes one JSON document per snapshot cycle
type FileArchiver struct {
	dir string
}

// NewFileArchiver creates an archiver rooted at dir
func NewFileArchiver(dir string) *FileArchiver {
	return &FileArchiver{
		dir: dir,
	}
}

// Archive writes the record to <dir>/<snapshotId>.json
func (a *FileArchiver) Archive(ctx context.Context, record content.ArchiveRecord) (string, error) {
	if record.SnapshotID == "" {
		return "", errors.New("archive record has no snapshot id")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(a.dir, record.SnapshotID+".json")
	if err := writeJSONFile(path, record); err != nil {
		return "", fmt.Errorf("error archiving snapshot %s: %w", record.SnapshotID, err)
	}

	return path, nil
}
