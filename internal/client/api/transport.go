package api

import (
	"log/slog"
	"net/http"
	"time"
)

// loggingTransport логирует исходящие запросы к endpoint.
// Логирует метод, URL, статус, время выполнения, размер ответа.
// НЕ логирует заголовок Authorization и тела запросов.
type loggingTransport struct {
	next   http.RoundTripper
	logger *slog.Logger
}

// NewLoggingTransport оборачивает next логированием запросов
func NewLoggingTransport(next http.RoundTripper, logger *slog.Logger) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &loggingTransport{next: next, logger: logger}
}

// RoundTrip выполняет запрос и пишет одну запись лога
func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := t.next.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		t.logger.Log(req.Context(), slog.LevelWarn, "HTTP request failed",
			"method", req.Method,
			"url", sanitizeURL(req),
			"duration_ms", duration.Milliseconds(),
			"error", err,
		)
		return nil, err
	}

	// Определяем уровень логирования на основе статуса
	logLevel := slog.LevelDebug
	if resp.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if resp.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}

	t.logger.Log(req.Context(), logLevel, "HTTP request",
		"method", req.Method,
		"url", sanitizeURL(req),
		"status", resp.StatusCode,
		"duration_ms", duration.Milliseconds(),
		"bytes_read", resp.ContentLength,
		"authorized", req.Header.Get("Authorization") != "",
	)

	return resp, nil
}

// sanitizeURL убирает из URL учетные данные и параметры запроса
func sanitizeURL(req *http.Request) string {
	u := *req.URL
	u.User = nil
	u.RawQuery = ""
	return u.String()
}
