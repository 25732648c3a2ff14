package get_business_hours

import (
	"context"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/service/schedule/models"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/tenant"
)

type ScheduleService interface {
	GetHours(ctx context.Context, store *tenant.Store, staffID *int64) ([]models.HoursResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
