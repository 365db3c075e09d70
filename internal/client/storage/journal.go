package storage

import (
	"context"

	"github.com/iudanet/bookvault/internal/models"
)

// JournalStorage defines interface for the mutation journal
type JournalStorage interface {
	// Record appends a resolved operation; entry.ID is set on success
	Record(ctx context.Context, entry *models.JournalEntry) error

	// List returns the newest entries first, at most limit (all if limit <= 0)
	List(ctx context.Context, limit int) ([]models.JournalEntry, error)
}
