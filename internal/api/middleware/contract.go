package middleware

import (
	"context"
	"time"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/tenant"
)

// TenantResolver находит хранилище тенанта по типу и reference_id
type TenantResolver interface {
	Resolve(ctx context.Context, kind string, referenceID int64) (*tenant.Store, error)
}

// HTTPMetrics записывает метрики HTTP запросов
type HTTPMetrics interface {
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
