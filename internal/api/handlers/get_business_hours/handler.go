package get_business_hours

import (
	"net/http"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/api/handlers"
)

const msgInvalidStaffID = "некорректный ID сотрудника"

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/business-hours
// Query params: staff_id (опционально, без него возвращается общее расписание)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	store, ok := handlers.Store(w, r)
	if !ok {
		return
	}

	staffID, err := handlers.QueryID(r, "staff_id")
	if err != nil {
		h.logger.Warn("GET /business-hours - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	hours, err := h.service.GetHours(r.Context(), store, staffID)
	if err != nil {
		h.logger.Error("GET /business-hours - Failed to get hours: tenant=%s, error=%v", store.Name, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /business-hours - Hours retrieved: tenant=%s, rows=%d", store.Name, len(hours))
	handlers.RespondJSON(w, http.StatusOK, hours)
}
