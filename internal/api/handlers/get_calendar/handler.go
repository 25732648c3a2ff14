package get_calendar

import (
	"errors"
	"net/http"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/api/handlers"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/service/bookings"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/service/bookings/models"
)

const msgInvalidDate = "некорректный формат даты, ожидается YYYY-MM-DD"

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/calendar
// Query params: start_date, end_date (опциональны, по умолчанию текущий месяц)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	store, ok := handlers.Store(w, r)
	if !ok {
		return
	}

	startDate, err := handlers.QueryDate(r, "start_date")
	if err != nil {
		h.logger.Warn("GET /calendar - Invalid start_date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	endDate, err := handlers.QueryDate(r, "end_date")
	if err != nil {
		h.logger.Warn("GET /calendar - Invalid end_date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	events, err := h.service.Calendar(r.Context(), store, &models.CalendarRequest{
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /calendar - Validation failed: %v", err)
			handlers.RespondValidationError(w, err)

		default:
			h.logger.Error("GET /calendar - Failed to build calendar: tenant=%s, error=%v", store.Name, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /calendar - Calendar retrieved: tenant=%s, events=%d", store.Name, len(events))
	handlers.RespondJSON(w, http.StatusOK, events)
}
