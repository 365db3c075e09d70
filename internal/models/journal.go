package models

import "time"

// JournalStatus итог обработки оптимистичной операции
type JournalStatus string

const (
	JournalConfirmed  JournalStatus = "confirmed"   // сервер подтвердил операцию
	JournalRolledBack JournalStatus = "rolled_back" // ошибка транспорта, изменение отменено
	JournalSuperseded JournalStatus = "superseded"  // подтверждение отброшено (удаление победило)
)

// JournalEntry представляет запись журнала мутаций.
// Журнал делает видимыми откаты, которые иначе остались бы только в логах.
type JournalEntry struct {
	IssuedAt   time.Time     `json:"issued_at"`   // IssuedAt момент спекулятивного применения
	ResolvedAt time.Time     `json:"resolved_at"` // ResolvedAt момент применения результата
	Token      string        `json:"token"`       // Token correlation token операции
	Query      string        `json:"query"`       // Query имя кэшированного запроса
	Kind       string        `json:"kind"`        // Kind "insert" или "delete"
	EntityID   string        `json:"entity_id"`   // EntityID временный ID (insert) или удаляемый ID (delete)
	ServerID   string        `json:"server_id"`   // ServerID ID, присвоенный сервером
	Status     JournalStatus `json:"status"`      // Status итог операции
	Error      string        `json:"error"`       // Error текст ошибки транспорта
	ID         int64         `json:"id"`          // ID порядковый номер в журнале
}
