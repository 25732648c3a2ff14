package update_settings

import (
	"context"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/domain"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/tenant"
)

type SettingsService interface {
	Update(ctx context.Context, store *tenant.Store, values map[string]interface{}) (domain.Settings, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
