package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader заголовок с идентификатором запроса
const RequestIDHeader = "X-Request-ID"

type contextKey string

const requestIDKey contextKey = "request_id"

// RequestID возвращает идентификатор запроса из контекста
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Logging присваивает запросу идентификатор и логирует метод, путь, статус и время ответа.
// Входящий X-Request-ID сохраняется, если это валидный UUID.
func Logging(log Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(RequestIDHeader)
			if _, err := uuid.Parse(requestID); err != nil {
				requestID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, requestID)
			r = r.WithContext(context.WithValue(r.Context(), requestIDKey, requestID))

			wrapped := wrap(w)
			next.ServeHTTP(wrapped, r)

			log.Info("HTTP %s %s - status=%d, duration_ms=%d, request_id=%s, remote_addr=%s",
				r.Method, r.URL.Path, wrapped.statusCode, time.Since(start).Milliseconds(), requestID, r.RemoteAddr)
		})
	}
}
