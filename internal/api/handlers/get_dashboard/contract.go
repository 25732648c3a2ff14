package get_dashboard

import (
	"context"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/service/bookings/models"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/tenant"
)

type BookingService interface {
	Dashboard(ctx context.Context, store *tenant.Store) (*models.DashboardResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
