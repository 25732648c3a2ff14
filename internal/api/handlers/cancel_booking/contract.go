package cancel_booking

import (
	"context"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/service/bookings/models"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/tenant"
)

type BookingService interface {
	Cancel(ctx context.Context, store *tenant.Store, id int64, req *models.CancelBookingRequest) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
