package reconciler

import (
	"errors"
	"fmt"
)

// Ошибки реконсилятора
var (
	// ErrNotLoaded indicates that the collection was never fetched or restored
	ErrNotLoaded = errors.New("collection not loaded")

	// ErrDuplicateID indicates that an entity with the same id is already in the collection
	ErrDuplicateID = errors.New("duplicate entity id")

	// ErrMissingID indicates that an entity has no id where one is required
	ErrMissingID = errors.New("entity id is empty")

	// ErrEntityNotFound indicates that the entity to delete is not in the collection
	ErrEntityNotFound = errors.New("entity not found")

	// ErrEmptyResult indicates that the data source confirmed an insert without returning the entity
	ErrEmptyResult = errors.New("mutation returned no entity")

	// ErrNoSnapshotStore indicates that Restore was called without a snapshot store
	ErrNoSnapshotStore = errors.New("snapshot store not configured")
)

// ValidationError означает, что запись отклонена до спекулятивного применения.
// Кэш при этом не изменяется.
type ValidationError struct {
	Err   error
	Query string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s entity: %v", e.Query, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// TransportError означает, что удаленный вызов не завершился успешно.
// Для мутаций спекулятивное изменение к этому моменту уже откачено.
type TransportError struct {
	Err   error
	Op    string
	Query string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Op, e.Query, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
