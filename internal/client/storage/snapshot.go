package storage

import (
	"context"

	"github.com/iudanet/bookvault/internal/models"
)

// SnapshotStorage defines interface for the last confirmed state of each query.
// Only server-confirmed entities are stored, temporary ones never reach disk.
type SnapshotStorage interface {
	// SaveSnapshot replaces the stored collection for query
	SaveSnapshot(ctx context.Context, query string, entities []models.Entity) error

	// LoadSnapshot returns the stored collection in its original order
	// Returns ErrSnapshotNotFound if nothing was saved for query
	LoadSnapshot(ctx context.Context, query string) ([]models.Entity, error)

	// DeleteSnapshot removes the stored collection for query
	DeleteSnapshot(ctx context.Context, query string) error

	// Clear removes all snapshots
	Clear(ctx context.Context) error
}
