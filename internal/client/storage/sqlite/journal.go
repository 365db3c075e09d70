package sqlite

import (
	"context"
	"fmt"

	"github.com/iudanet/bookvault/internal/client/storage"
	"github.com/iudanet/bookvault/internal/models"
)

var _ storage.JournalStorage = (*Storage)(nil)

// Record добавляет запись журнала и проставляет entry.ID.
// Повторная запись того же token игнорируется.
func (s *Storage) Record(ctx context.Context, entry *models.JournalEntry) error {
	query := `
		INSERT INTO mutation_journal
			(token, query, kind, entity_id, server_id, status, error, issued_at, resolved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`

	res, err := s.db.ExecContext(ctx, query,
		entry.Token,
		entry.Query,
		entry.Kind,
		entry.EntityID,
		entry.ServerID,
		string(entry.Status),
		entry.Error,
		entry.IssuedAt.UTC(),
		entry.ResolvedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record journal entry: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 1 {
		if id, err := res.LastInsertId(); err == nil {
			entry.ID = id
		}
	}

	return nil
}

// List возвращает записи журнала, новые первыми
func (s *Storage) List(ctx context.Context, limit int) ([]models.JournalEntry, error) {
	query := `
		SELECT id, token, query, kind, entity_id, server_id, status, error, issued_at, resolved_at
		FROM mutation_journal
		ORDER BY id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var entries []models.JournalEntry

	for rows.Next() {
		var (
			e      models.JournalEntry
			status string
		)
		if err := rows.Scan(
			&e.ID,
			&e.Token,
			&e.Query,
			&e.Kind,
			&e.EntityID,
			&e.ServerID,
			&status,
			&e.Error,
			&e.IssuedAt,
			&e.ResolvedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		e.Status = models.JournalStatus(status)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal: %w", err)
	}

	return entries, nil
}
