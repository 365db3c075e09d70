package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/bookvault/internal/client/storage"
)

const keySavedAtPrefix = "saved_at:"

func savedAtKey(query string) []byte {
	return []byte(keySavedAtPrefix + query)
}

// putSavedAt сохраняет время записи снимка; вызывается внутри Update
func putSavedAt(tx *bbolt.Tx, query string, at time.Time) error {
	// Конвертируем время в bytes
	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, uint64(at.UnixNano()))

	if err := tx.Bucket(bucketMetadata).Put(savedAtKey(query), ts); err != nil {
		return fmt.Errorf("failed to save snapshot timestamp: %w", err)
	}
	return nil
}

// SnapshotSavedAt возвращает время последнего сохранения снимка query.
// Возвращает нулевое время, если снимка нет.
func (s *Storage) SnapshotSavedAt(ctx context.Context, query string) (time.Time, error) {
	if s.db == nil {
		return time.Time{}, storage.ErrStorageClosed
	}

	var savedAt time.Time

	err := s.db.View(func(tx *bbolt.Tx) error {
		ts := tx.Bucket(bucketMetadata).Get(savedAtKey(query))
		if ts == nil {
			return nil
		}
		if len(ts) != 8 {
			return fmt.Errorf("corrupted timestamp for %s", query)
		}

		// Конвертируем bytes во время
		savedAt = time.Unix(0, int64(binary.BigEndian.Uint64(ts)))
		return nil
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get snapshot timestamp: %w", err)
	}

	return savedAt, nil
}
