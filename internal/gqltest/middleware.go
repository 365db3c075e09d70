package gqltest

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/iudanet/bookvault/pkg/api"
)

// responseWriter запоминает код ответа и размер тела
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: code, Message: message})
}

// chain оборачивает h middleware; первый в списке выполняется первым
func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// loggingMiddleware логирует каждый запрос. Уровень зависит от статуса.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		level := slog.LevelDebug
		if wrapped.statusCode >= 500 {
			level = slog.LevelError
		} else if wrapped.statusCode >= 400 {
			level = slog.LevelWarn
		}

		s.log().Log(r.Context(), level, "GraphQL request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes_written", wrapped.written,
		)
	})
}

// recoveryMiddleware превращает панику обработчика в 500 с JSON телом
func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.log().Error("Panic recovered",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				writeError(w, http.StatusInternalServerError, "internal_error", "Internal Server Error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// faultMiddleware считает запросы и выполняет заказанные сбои
func (s *Server) faultMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests++
		fail := s.failHTTP > 0
		if fail {
			s.failHTTP--
		}
		panicNow := !fail && s.panics > 0
		if panicNow {
			s.panics--
		}
		s.mu.Unlock()

		if fail {
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
			return
		}
		if panicNow {
			panic(ErrInjected)
		}
		next.ServeHTTP(w, r)
	})
}

// authMiddleware проверяет заголовок Authorization: Bearer <token>, если токен задан
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		token := s.token
		s.mu.Unlock()

		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			s.log().Warn("Missing Authorization header")
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing token")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			s.log().Warn("Invalid Authorization header format")
			writeError(w, http.StatusUnauthorized, "unauthorized", "invalid token format")
			return
		}

		if parts[1] != token {
			s.log().Warn("Invalid access token")
			writeError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
			return
		}

		next.ServeHTTP(w, r)
	})
}
