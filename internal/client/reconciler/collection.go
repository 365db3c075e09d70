package reconciler

import (
	"fmt"

	"github.com/iudanet/bookvault/internal/models"
)

// Collection упорядоченный список записей одного запроса.
// Функции ниже никогда не изменяют переданный срез: каждая возвращает новый,
// поэтому снимок, отданный читателю, не меняется у него под руками.
type Collection []models.Entity

// IndexOf возвращает позицию записи с данным ID или -1
func (c Collection) IndexOf(id string) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

// Contains сообщает, есть ли в коллекции запись с данным ID
func (c Collection) Contains(id string) bool {
	return c.IndexOf(id) >= 0
}

// IDs возвращает идентификаторы записей в порядке коллекции
func (c Collection) IDs() []string {
	ids := make([]string, len(c))
	for i := range c {
		ids[i] = c[i].ID
	}
	return ids
}

// Clone создает глубокую копию коллекции
func (c Collection) Clone() Collection {
	if c == nil {
		return nil
	}
	out := make(Collection, len(c))
	for i := range c {
		out[i] = c[i].Clone()
	}
	return out
}

// ApplyOptimisticInsert добавляет временную запись в конец коллекции.
func ApplyOptimisticInsert(c Collection, temp models.Entity) (Collection, error) {
	if temp.ID == "" {
		return c, ErrMissingID
	}
	if c.Contains(temp.ID) {
		return c, fmt.Errorf("%w: %s", ErrDuplicateID, temp.ID)
	}

	out := make(Collection, len(c), len(c)+1)
	copy(out, c)
	return append(out, temp), nil
}

// ApplyOptimisticDelete удаляет запись с данным ID.
// Возвращает удаленную запись и ее позицию, чтобы откат мог вернуть ее на место.
// Если записи нет, коллекция возвращается без изменений и found == false.
func ApplyOptimisticDelete(c Collection, id string) (out Collection, removed models.Entity, index int, found bool) {
	i := c.IndexOf(id)
	if i < 0 {
		return c, models.Entity{}, -1, false
	}

	out = make(Collection, 0, len(c)-1)
	out = append(out, c[:i]...)
	out = append(out, c[i+1:]...)
	return out, c[i], i, true
}

// ReconcileInsert заменяет временную запись подтвержденной сервером.
// Если временной записи уже нет (ее удалили), серверная запись отбрасывается.
// Если запись с серверным ID уже есть, она обновляется, а временная удаляется.
func ReconcileInsert(c Collection, tempID string, server models.Entity) Collection {
	ti := c.IndexOf(tempID)
	if ti < 0 {
		return c
	}

	si := c.IndexOf(server.ID)
	if si >= 0 && si != ti {
		out := make(Collection, 0, len(c)-1)
		for i := range c {
			switch i {
			case ti:
			case si:
				out = append(out, server)
			default:
				out = append(out, c[i])
			}
		}
		return out
	}

	out := make(Collection, len(c))
	copy(out, c)
	out[ti] = server
	return out
}

// ReconcileDelete удаляет подтвержденно удаленную запись. Идемпотентна.
func ReconcileDelete(c Collection, id string) Collection {
	out, _, _, _ := ApplyOptimisticDelete(c, id)
	return out
}

// Rollback отменяет спекулятивное изменение операции op.
// Неудачная вставка удаляет временную запись, неудачное удаление
// возвращает запись на исходную позицию (или в конец, если коллекция стала короче).
func Rollback(c Collection, op PendingOperation) Collection {
	switch op.Kind {
	case OpInsert:
		return ReconcileDelete(c, op.ID)
	case OpDelete:
		if !op.Found || op.Entity.ID == "" || c.Contains(op.Entity.ID) {
			return c
		}
		idx := op.Index
		if idx < 0 {
			idx = 0
		}
		if idx > len(c) {
			idx = len(c)
		}

		out := make(Collection, 0, len(c)+1)
		out = append(out, c[:idx]...)
		out = append(out, op.Entity)
		out = append(out, c[idx:]...)
		return out
	}
	return c
}
