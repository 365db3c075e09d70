package storage

import (
	"context"
	"time"
)

// MetadataStorage defines interface for snapshot bookkeeping
type MetadataStorage interface {
	// SnapshotSavedAt returns the time the snapshot of query was last saved
	// Returns zero time if no snapshot exists
	SnapshotSavedAt(ctx context.Context, query string) (time.Time, error)
}
