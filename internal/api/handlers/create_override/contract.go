package create_override

import (
	"context"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/service/schedule/models"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/tenant"
)

type ScheduleService interface {
	CreateOverride(ctx context.Context, store *tenant.Store, req *models.CreateOverrideRequest) (*models.OverrideResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
