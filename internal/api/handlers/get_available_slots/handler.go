package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/api/handlers"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/domain"
	getAvailableSlots "github.com/ajtaylor-dev/Pagevoo-sub002/internal/usecase/get_available_slots"
)

const (
	msgInvalidServiceID = "некорректный ID услуги"
	msgInvalidStaffID   = "некорректный ID сотрудника"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgServiceNotFound  = "услуга не найдена"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/slots
// Query params: service_id, date (YYYY-MM-DD), staff_id (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	store, ok := handlers.Store(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()

	// Пустые service_id и date проверит use case (422)
	var req getAvailableSlots.Request
	if raw := query.Get("service_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET /slots - Invalid service ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidServiceID)
			return
		}
		req.ServiceID = id
	}

	staffID, err := handlers.QueryID(r, "staff_id")
	if err != nil {
		h.logger.Warn("GET /slots - Invalid staff ID: %q", query.Get("staff_id"))
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}
	req.StaffID = staffID

	if raw := query.Get("date"); raw != "" {
		date, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /slots - Invalid date: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.Date = date
	}

	result, err := h.useCase.Execute(r.Context(), store, &req)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /slots - Validation failed: %v", err)
			handlers.RespondValidationError(w, err)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound),
			errors.Is(err, getAvailableSlots.ErrServiceInactive):
			h.logger.Warn("GET /slots - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		default:
			h.logger.Error("GET /slots - Failed to get slots: tenant=%s, service_id=%d, error=%v", store.Name, req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /slots - Slots retrieved successfully: tenant=%s, service_id=%d, slots_count=%d",
		store.Name, req.ServiceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
