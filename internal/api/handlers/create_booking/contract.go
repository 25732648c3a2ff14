package create_booking

import (
	"context"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/tenant"
	createBooking "github.com/ajtaylor-dev/Pagevoo-sub002/internal/usecase/create_booking"
)

type CreateBookingUseCase interface {
	Execute(ctx context.Context, store *tenant.Store, req *createBooking.Request) (*createBooking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
