package get_available_slots

import (
	"context"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/tenant"
	getAvailableSlots "github.com/ajtaylor-dev/Pagevoo-sub002/internal/usecase/get_available_slots"
)

type GetAvailableSlotsUseCase interface {
	Execute(ctx context.Context, store *tenant.Store, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
