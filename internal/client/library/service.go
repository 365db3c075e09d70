// Package library предоставляет типизированные операции над книгами
// поверх оптимистичного кэша.
package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/iudanet/bookvault/internal/client/reconciler"
	"github.com/iudanet/bookvault/internal/client/storage"
	"github.com/iudanet/bookvault/internal/models"
	"github.com/iudanet/bookvault/internal/validation"
)

var (
	// ErrNoJournal возвращается History, если журнал не подключен
	ErrNoJournal = errors.New("mutation journal not configured")
	// ErrNoSnapshots возвращается ClearCache, если хранилище снимков не подключено
	ErrNoSnapshots = errors.New("snapshot storage not configured")
)

//go:generate moq -out service_mock.go . Service

// Service определяет интерфейс клиентского сервиса библиотеки
type Service interface {
	Refresh(ctx context.Context) (RefreshResult, error)
	List() []models.Book
	Add(ctx context.Context, nb models.NewBook) (models.Book, error)
	Delete(ctx context.Context, id string) error
	Pending() []reconciler.PendingOperation
	History(ctx context.Context, limit int) ([]models.JournalEntry, error)
	ClearCache(ctx context.Context, all bool) error
}

// RefreshResult описывает, откуда получен список книг
type RefreshResult struct {
	SavedAt time.Time // SavedAt время сохранения снимка (только для Offline)
	Err     error     // Err ошибка загрузки с сервера, из-за которой использован снимок
	Count   int
	Offline bool // Offline список восстановлен из локального снимка
}

// Option настраивает сервис
type Option func(*service)

// WithJournal подключает журнал для History
func WithJournal(j storage.JournalStorage) Option {
	return func(s *service) { s.journal = j }
}

// WithMetadata подключает хранилище метаданных снимков
func WithMetadata(m storage.MetadataStorage) Option {
	return func(s *service) { s.metadata = m }
}

// WithSnapshots подключает хранилище снимков для ClearCache
func WithSnapshots(snapshots storage.SnapshotStorage) Option {
	return func(s *service) { s.snapshots = snapshots }
}

// WithClock подменяет источник времени для проверки года издания
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

type service struct {
	cache     *reconciler.Reconciler
	journal   storage.JournalStorage
	metadata  storage.MetadataStorage
	snapshots storage.SnapshotStorage
	logger    *slog.Logger
	now       func() time.Time
}

// NewService создает сервис библиотеки поверх реконсилятора
func NewService(cache *reconciler.Reconciler, logger *slog.Logger, opts ...Option) Service {
	s := &service{
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh загружает книги с сервера. Если сервер недоступен, а коллекция
// еще не загружена, используется последний сохраненный снимок.
func (s *service) Refresh(ctx context.Context) (RefreshResult, error) {
	err := s.cache.Fetch(ctx, models.QueryBooks)
	if err == nil {
		return RefreshResult{Count: len(s.cache.Snapshot(models.QueryBooks).Entities)}, nil
	}
	if !reconciler.IsTransport(err) {
		return RefreshResult{}, err
	}

	s.logger.Warn("Server unreachable, falling back to local snapshot", "error", err)

	if restoreErr := s.cache.Restore(ctx, models.QueryBooks); restoreErr != nil {
		return RefreshResult{}, fmt.Errorf("%w (no usable snapshot: %w)", err, restoreErr)
	}

	res := RefreshResult{
		Count:   len(s.cache.Snapshot(models.QueryBooks).Entities),
		Offline: true,
		Err:     err,
	}
	if s.metadata != nil {
		savedAt, mErr := s.metadata.SnapshotSavedAt(ctx, models.QueryBooks)
		if mErr != nil {
			s.logger.Warn("Failed to read snapshot timestamp", "error", mErr)
		}
		res.SavedAt = savedAt
	}

	return res, nil
}

// List возвращает книги в порядке коллекции, включая еще не подтвержденные
func (s *service) List() []models.Book {
	snap := s.cache.Snapshot(models.QueryBooks)

	books := make([]models.Book, len(snap.Entities))
	for i, e := range snap.Entities {
		books[i] = models.BookFromEntity(e)
	}
	return books
}

// Add нормализует ввод, проверяет его и добавляет книгу.
// Пустой жанр и нулевой год отправляются как null.
func (s *service) Add(ctx context.Context, nb models.NewBook) (models.Book, error) {
	book := models.Book{
		Title:  strings.TrimSpace(nb.Title),
		Author: strings.TrimSpace(nb.Author),
	}
	if genre := strings.TrimSpace(nb.Genre); genre != "" {
		book.Genre = &genre
	}
	if nb.PublishedYear != 0 {
		year := nb.PublishedYear
		book.PublishedYear = &year
	}

	if err := s.validate(book); err != nil {
		return models.Book{}, &reconciler.ValidationError{Query: models.QueryBooks, Err: err}
	}

	created, err := s.cache.Insert(ctx, models.QueryBooks, book.ToEntity())
	if err != nil {
		return models.Book{}, err
	}

	s.logger.Info("Book added", "id", created.ID, "title", book.Title)
	return models.BookFromEntity(created), nil
}

func (s *service) validate(b models.Book) error {
	var errs []error
	errs = append(errs, validation.ValidateTitle(b.Title), validation.ValidateAuthor(b.Author))
	if b.Genre != nil {
		errs = append(errs, validation.ValidateGenre(*b.Genre))
	}
	if b.PublishedYear != nil {
		errs = append(errs, validation.ValidatePublishedYear(*b.PublishedYear, s.now()))
	}
	return errors.Join(errs...)
}

// Delete удаляет книгу по ID (серверному или временному)
func (s *service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if err := s.cache.Delete(ctx, models.QueryBooks, id); err != nil {
		return err
	}

	s.logger.Info("Book deleted", "id", id)
	return nil
}

// Pending возвращает операции, ожидающие ответа сервера
func (s *service) Pending() []reconciler.PendingOperation {
	return s.cache.Pending(models.QueryBooks)
}

// History возвращает последние записи журнала мутаций
func (s *service) History(ctx context.Context, limit int) ([]models.JournalEntry, error) {
	if s.journal == nil {
		return nil, ErrNoJournal
	}

	entries, err := s.journal.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	return entries, nil
}

// ClearCache удаляет сохраненный снимок книг, а с all все снимки.
// Коллекция в памяти не меняется, снимок перезапишется при следующем подтверждении.
func (s *service) ClearCache(ctx context.Context, all bool) error {
	if s.snapshots == nil {
		return ErrNoSnapshots
	}

	var err error
	if all {
		err = s.snapshots.Clear(ctx)
	} else {
		err = s.snapshots.DeleteSnapshot(ctx, models.QueryBooks)
	}
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	s.logger.Info("Local cache cleared", "all", all)
	return nil
}
