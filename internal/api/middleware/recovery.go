package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/api/handlers"
)

// Recovery перехватывает панику обработчика и отвечает 500
func Recovery(log Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.Error("Panic recovered: %v, method=%s, path=%s, request_id=%s\n%s",
						err, r.Method, r.URL.Path, RequestID(r.Context()), debug.Stack())
					handlers.RespondInternalError(w)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
