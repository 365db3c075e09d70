package api

import "errors"

// Ошибки клиента API
var (
	// ErrUnknownQuery indicates that the data source does not serve the requested collection
	ErrUnknownQuery = errors.New("unknown query")

	// ErrTokenExpired indicates that the bearer token is already expired
	ErrTokenExpired = errors.New("token expired")

	// ErrInvalidToken indicates that the bearer token is not a parseable JWT
	ErrInvalidToken = errors.New("invalid token")

	// ErrUnsupportedMutation indicates a mutation kind the data source cannot send
	ErrUnsupportedMutation = errors.New("unsupported mutation")
)
