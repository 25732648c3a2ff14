package create_booking

import (
	"errors"
	"net/http"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/api/handlers"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/service/bookings/models"
	createBooking "github.com/ajtaylor-dev/Pagevoo-sub002/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
	msgServiceNotFound    = "услуга не найдена"
	msgReferenceExhausted = "не удалось выделить номер бронирования, повторите запрос"
	msgCreated            = "бронирование создано"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	store, ok := handlers.Store(w, r)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondValidationError(w, err)
		return
	}

	result, err := h.useCase.Execute(r.Context(), store, useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Validation failed: %v", err)
			handlers.RespondValidationError(w, err)

		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: tenant=%s, service_id=%d, date=%s, time=%s",
				store.Name, req.ServiceID, req.BookingDate, req.StartTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrServiceNotFound),
			errors.Is(err, createBooking.ErrServiceInactive):
			h.logger.Warn("POST /bookings - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrReferenceExhausted):
			h.logger.Error("POST /bookings - Reference space exhausted: tenant=%s", store.Name)
			handlers.RespondConflict(w, msgReferenceExhausted)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: tenant=%s, service_id=%d, error=%v",
				store.Name, req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: tenant=%s, booking_id=%d, reference=%s",
		store.Name, result.Booking.ID, result.Booking.Reference)
	handlers.RespondMessage(w, http.StatusCreated, models.FromDomainBooking(result.Booking), msgCreated)
}
