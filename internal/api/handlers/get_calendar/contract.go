package get_calendar

import (
	"context"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/service/bookings/models"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/tenant"
)

type BookingService interface {
	Calendar(ctx context.Context, store *tenant.Store, req *models.CalendarRequest) ([]models.CalendarEventResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
