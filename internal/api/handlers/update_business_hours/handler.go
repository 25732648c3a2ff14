package update_business_hours

import (
	"errors"
	"net/http"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/api/handlers"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/service/schedule"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/service/schedule/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUpdated            = "расписание обновлено"
)

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

// Handle PUT /api/v1/business-hours
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	store, ok := handlers.Store(w, r)
	if !ok {
		return
	}

	var req models.UpdateHoursRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /business-hours - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	hours, err := h.service.UpdateHours(r.Context(), store, &req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /business-hours - Validation failed: %v", err)
			handlers.RespondValidationError(w, err)

		default:
			h.logger.Error("PUT /business-hours - Failed to update hours: tenant=%s, error=%v", store.Name, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /business-hours - Hours updated: tenant=%s, rows=%d", store.Name, len(hours))
	handlers.RespondMessage(w, http.StatusOK, hours, msgUpdated)
}
