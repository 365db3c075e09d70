package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Entity представляет запись коллекции: уникальный ID и набор именованных полей.
// Значения полей: string, int64 или nil (null / отсутствует).
type Entity struct {
	Fields map[string]any `json:"-"` // Fields скалярные поля записи (без id)
	ID     string         `json:"id"`
}

// NewEntity создает запись с заданным ID и полями.
// Поля копируются, чтобы вызывающий код не мог изменить запись извне.
func NewEntity(id string, fields map[string]any) Entity {
	e := Entity{ID: id, Fields: make(map[string]any, len(fields))}
	for k, v := range fields {
		e.Fields[k] = normalizeValue(v)
	}
	return e
}

// String возвращает строковое поле; пустая строка если поля нет или оно не строка
func (e Entity) String(name string) string {
	s, _ := e.Fields[name].(string)
	return s
}

// Int возвращает целочисленное поле и признак того, что оно задано
func (e Entity) Int(name string) (int64, bool) {
	n, ok := e.Fields[name].(int64)
	return n, ok
}

// WithID возвращает копию записи с другим ID
func (e Entity) WithID(id string) Entity {
	c := e.Clone()
	c.ID = id
	return c
}

// Clone создает глубокую копию записи
func (e Entity) Clone() Entity {
	c := Entity{ID: e.ID}
	if e.Fields != nil {
		c.Fields = make(map[string]any, len(e.Fields))
		for k, v := range e.Fields {
			c.Fields[k] = v
		}
	}
	return c
}

// Equal сравнивает две записи по ID и всем полям.
// Отсутствующее поле и поле со значением nil считаются равными.
func (e Entity) Equal(other Entity) bool {
	if e.ID != other.ID {
		return false
	}
	for k, v := range e.Fields {
		if other.Fields[k] != v {
			return false
		}
	}
	for k, v := range other.Fields {
		if e.Fields[k] != v {
			return false
		}
	}
	return true
}

// MarshalJSON сериализует запись плоским объектом {"id": ..., "<field>": ...}
func (e Entity) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		if k == "id" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	id, err := json.Marshal(e.ID)
	if err != nil {
		return nil, err
	}
	buf.WriteString(`"id":`)
	buf.Write(id)

	for _, k := range keys {
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Fields[k])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal field %q: %w", k, err)
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON разбирает плоский объект; целые числа становятся int64
func (e *Entity) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("failed to decode entity: %w", err)
	}

	e.ID = ""
	e.Fields = make(map[string]any, len(raw))
	for k, v := range raw {
		if k == "id" {
			switch id := v.(type) {
			case string:
				e.ID = id
			case json.Number:
				e.ID = id.String()
			case nil:
			default:
				return fmt.Errorf("entity id has unsupported type %T", v)
			}
			continue
		}

		val, err := decodeValue(v)
		if err != nil {
			return fmt.Errorf("field %q: %w", k, err)
		}
		e.Fields[k] = val
	}

	return nil
}

func decodeValue(v any) (any, error) {
	switch val := v.(type) {
	case nil, string:
		return val, nil
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return nil, fmt.Errorf("non-integer number %s", val)
		}
		return n, nil
	case bool:
		// Bool не входит в модель, храним как строку
		return fmt.Sprintf("%t", val), nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

// normalizeValue приводит целые типы к int64
func normalizeValue(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case *int:
		if n == nil {
			return nil
		}
		return int64(*n)
	case *string:
		if n == nil {
			return nil
		}
		return *n
	default:
		return v
	}
}
