// Package tempid выдает временные идентификаторы для записей,
// которым сервер еще не присвоил ID.
package tempid

import (
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Prefix общий префикс всех временных идентификаторов
const Prefix = "tmp-"

// Generator выдает уникальные временные ID в пределах процесса.
// Вместо времени используется монотонный счетчик, поэтому
// быстрые последовательные вставки не получают одинаковый ID.
type Generator struct {
	nodeID  string     // идентификатор экземпляра (часть UUID)
	counter int64      // монотонно возрастающий счетчик
	mu      sync.Mutex // мьютекс для потокобезопасности
}

// New создает генератор со случайным идентификатором экземпляра (UUID).
func New() *Generator {
	return NewWithNodeID(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

// NewWithNodeID создает генератор с заданным идентификатором экземпляра.
// Используется в тестах, где нужны предсказуемые ID.
func NewWithNodeID(nodeID string) *Generator {
	return &Generator{nodeID: nodeID}
}

// Tick увеличивает счетчик и возвращает новое значение.
func (g *Generator) Tick() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.counter++
	return g.counter
}

// Next возвращает следующий временный ID вида tmp-<node>-<n>.
func (g *Generator) Next() string {
	n := g.Tick()
	return Prefix + g.nodeID + "-" + strconv.FormatInt(n, 10)
}

// IsTemporary сообщает, похож ли ID на временный (выдан любым генератором).
func IsTemporary(id string) bool {
	return strings.HasPrefix(id, Prefix)
}
