package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iudanet/bookvault/internal/client/api"
	"github.com/iudanet/bookvault/internal/client/config"
	"github.com/iudanet/bookvault/internal/client/library"
	"github.com/iudanet/bookvault/internal/client/reconciler"
	"github.com/iudanet/bookvault/internal/client/storage/boltdb"
	"github.com/iudanet/bookvault/internal/client/storage/sqlite"
	"github.com/iudanet/bookvault/internal/models"
	"github.com/iudanet/bookvault/internal/validation"
)

// Stack ресурсы, открытые на время выполнения одной команды
type Stack struct {
	Service library.Service
	closers []func() error
}

// Close закрывает ресурсы в обратном порядке открытия
func (s *Stack) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	s.closers = nil
	return errors.Join(errs...)
}

// Opener открывает стек по конфигурации
type Opener func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Stack, error)

// OpenStack собирает рабочий стек: снимки в BoltDB, журнал в SQLite,
// GraphQL клиент и реконсилятор книг.
func OpenStack(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Stack, error) {
	stack := &Stack{}

	snapshots, err := boltdb.New(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}
	stack.closers = append(stack.closers, snapshots.Close)

	journal, err := sqlite.New(ctx, cfg.JournalPath)
	if err != nil {
		_ = stack.Close()
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	stack.closers = append(stack.closers, journal.Close)

	client := api.NewClient(cfg.Endpoint, logger)
	if err := client.SetToken(cfg.Token); err != nil {
		_ = stack.Close()
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	cache := reconciler.New(api.NewBooksSource(client), logger,
		reconciler.WithSnapshotStore(snapshots),
		reconciler.WithJournal(journal),
		reconciler.WithValidator(models.QueryBooks, validation.ValidateBookEntity),
	)

	stack.Service = library.NewService(cache, logger,
		library.WithJournal(journal),
		library.WithMetadata(snapshots),
		library.WithSnapshots(snapshots),
	)

	logger.Debug("Client stack opened", "endpoint", cfg.Endpoint, "db", cfg.DBPath, "journal", cfg.JournalPath)
	return stack, nil
}
