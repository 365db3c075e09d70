package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// GraphQLRequest тело POST запроса к GraphQL endpoint
type GraphQLRequest struct {
	Variables     map[string]any `json:"variables,omitempty"`     // значения переменных документа
	Query         string         `json:"query"`                   // текст документа
	OperationName string         `json:"operationName,omitempty"` // имя выполняемой операции
}

// GraphQLResponse ответ GraphQL endpoint.
// Data декодируется вызывающей стороной в тип конкретной операции.
type GraphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// GraphQLLocation позиция ошибки в документе
type GraphQLLocation struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// GraphQLError ошибка выполнения или валидации запроса
type GraphQLError struct {
	Message   string            `json:"message"`
	Path      []any             `json:"path,omitempty"`
	Locations []GraphQLLocation `json:"locations,omitempty"`
}

func (e GraphQLError) Error() string {
	if len(e.Path) == 0 {
		return e.Message
	}
	parts := make([]string, len(e.Path))
	for i, p := range e.Path {
		parts[i] = fmt.Sprint(p)
	}
	return strings.Join(parts, ".") + ": " + e.Message
}

// ErrorResponse представляет не-GraphQL ответ с ошибкой (прокси, 5xx)
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
