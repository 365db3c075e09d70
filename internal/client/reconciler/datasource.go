package reconciler

import (
	"context"
	"time"

	"github.com/iudanet/bookvault/internal/models"
)

// OpKind вид оптимистичной операции
type OpKind string

const (
	OpInsert OpKind = "insert"
	OpDelete OpKind = "delete"
)

// Mutation описывает операцию, отправляемую удаленному источнику данных
type Mutation struct {
	Entity models.Entity // Entity поля новой записи (insert), без ID
	Query  string        // Query имя коллекции
	ID     string        // ID удаляемой записи (delete)
	Kind   OpKind
}

//go:generate moq -out datasource_mock.go . DataSource

// DataSource определяет удаленный источник данных.
// Оба вызова асинхронны с точки зрения кэша и могут длиться сколько угодно.
type DataSource interface {
	// FetchAll возвращает авторитетное состояние коллекции
	FetchAll(ctx context.Context, query string) ([]models.Entity, error)

	// Mutate выполняет мутацию. Для insert возвращает созданную запись
	// с серверным ID, для delete результат может быть nil.
	Mutate(ctx context.Context, m Mutation) (*models.Entity, error)
}

//go:generate moq -out store_mock.go . SnapshotStore Journal

// SnapshotStore хранит последнее подтвержденное состояние коллекции
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, query string, entities []models.Entity) error
	LoadSnapshot(ctx context.Context, query string) ([]models.Entity, error)
}

// Journal записывает итог каждой разрешенной операции
type Journal interface {
	Record(ctx context.Context, entry *models.JournalEntry) error
}

// Validator проверяет запись перед спекулятивной вставкой
type Validator func(models.Entity) error

// PendingOperation спекулятивное изменение, ожидающее подтверждения.
type PendingOperation struct {
	IssuedAt time.Time     // IssuedAt момент спекулятивного применения
	Entity   models.Entity // Entity временная запись (insert) или удаленная запись (delete)
	Token    string        // Token correlation token
	Query    string        // Query имя коллекции
	ID       string        // ID временный ID (insert) или ID удаляемой записи (delete)
	Target   string        // Target ID, который уходит на сервер при удалении
	Kind     OpKind
	Index    int    // Index исходная позиция удаленной записи
	Seq      uint64 // Seq порядковый номер выдачи
	Found    bool   // Found запись была в коллекции в момент удаления
}

// Snapshot согласованный снимок коллекции для чтения
type Snapshot struct {
	Query    string
	Entities []models.Entity
	Version  uint64 // Version увеличивается при каждом видимом изменении
	Pending  int    // Pending число неразрешенных операций
	Loaded   bool
}
