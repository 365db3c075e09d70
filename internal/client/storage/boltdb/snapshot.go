package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/bookvault/internal/client/storage"
	"github.com/iudanet/bookvault/internal/models"
)

// SaveSnapshot заменяет сохраненную коллекцию query
func (s *Storage) SaveSnapshot(ctx context.Context, query string, entities []models.Entity) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	if entities == nil {
		entities = []models.Entity{}
	}

	// Сериализуем коллекцию в JSON, порядок сохраняется
	data, err := json.Marshal(entities)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketSnapshots).Put([]byte(query), data); err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}
		return putSavedAt(tx, query, s.now())
	})
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

// LoadSnapshot возвращает сохраненную коллекцию query
func (s *Storage) LoadSnapshot(ctx context.Context, query string) ([]models.Entity, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var entities []models.Entity

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSnapshots).Get([]byte(query))
		if data == nil {
			return storage.ErrSnapshotNotFound
		}

		// Десериализуем
		if err := json.Unmarshal(data, &entities); err != nil {
			return fmt.Errorf("failed to unmarshal snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entities, nil
}

// DeleteSnapshot удаляет коллекцию query. Отсутствие снимка не ошибка.
func (s *Storage) DeleteSnapshot(ctx context.Context, query string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketSnapshots).Delete([]byte(query)); err != nil {
			return fmt.Errorf("failed to delete snapshot: %w", err)
		}
		return tx.Bucket(bucketMetadata).Delete(savedAtKey(query))
	})
}

// Clear удаляет все снимки
func (s *Storage) Clear(ctx context.Context) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketSnapshots, bucketMetadata} {
			if err := tx.DeleteBucket(name); err != nil {
				return fmt.Errorf("failed to delete %s bucket: %w", name, err)
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return fmt.Errorf("failed to recreate %s bucket: %w", name, err)
			}
		}
		return nil
	})
}
