package storage

import "errors"

// Common client storage errors
var (
	// ErrSnapshotNotFound indicates that no snapshot was saved for the query
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
