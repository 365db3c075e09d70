package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CheckToken проверяет срок действия bearer токена.
// Подпись не проверяется: ключа у клиента нет, это делает сервер.
// Токен без exp считается бессрочным.
func CheckToken(token string, now time.Time) error {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.ExpiresAt != nil && !now.Before(claims.ExpiresAt.Time) {
		return fmt.Errorf("%w at %s", ErrTokenExpired, claims.ExpiresAt.Time.Format(time.RFC3339))
	}
	return nil
}

// IsTokenError сообщает, отклонен ли токен клиентом
func IsTokenError(err error) bool {
	return errors.Is(err, ErrTokenExpired) || errors.Is(err, ErrInvalidToken)
}
