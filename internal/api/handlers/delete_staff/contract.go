package delete_staff

import (
	"context"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/tenant"
)

type StaffService interface {
	Delete(ctx context.Context, store *tenant.Store, staffID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
