package get_settings

import (
	"context"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/domain"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/tenant"
)

type SettingsService interface {
	Get(ctx context.Context, store *tenant.Store) (domain.Settings, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
