package create_override

import (
	"errors"
	"net/http"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/api/handlers"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/service/schedule"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/service/schedule/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgCreated            = "исключение в расписании создано"
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

// Handle POST /api/v1/availability-overrides
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	store, ok := handlers.Store(w, r)
	if !ok {
		return
	}

	var req models.CreateOverrideRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /availability-overrides - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	override, err := h.service.CreateOverride(r.Context(), store, &req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("POST /availability-overrides - Validation failed: %v", err)
			handlers.RespondValidationError(w, err)

		default:
			h.logger.Error("POST /availability-overrides - Failed to create override: tenant=%s, error=%v", store.Name, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /availability-overrides - Override created: tenant=%s, override_id=%d", store.Name, override.ID)
	handlers.RespondMessage(w, http.StatusCreated, override, msgCreated)
}
