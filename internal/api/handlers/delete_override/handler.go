package delete_override

import (
	"errors"
	"net/http"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/api/handlers"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/service/schedule"
)

const (
	msgInvalidOverrideID = "некорректный ID исключения"
	msgNotFound          = "исключение не найдено"
	msgDeleted           = "исключение удалено"
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

// Handle DELETE /api/v1/availability-overrides/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	store, ok := handlers.Store(w, r)
	if !ok {
		return
	}

	overrideID, err := handlers.PathID(r, "id")
	if err != nil {
		h.logger.Warn("DELETE /availability-overrides/{id} - Invalid override ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOverrideID)
		return
	}

	if err := h.service.DeleteOverride(r.Context(), store, overrideID); err != nil {
		switch {
		case errors.Is(err, schedule.ErrOverrideNotFound):
			h.logger.Warn("DELETE /availability-overrides/{id} - Override not found: override_id=%d", overrideID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /availability-overrides/{id} - Failed to delete override: override_id=%d, error=%v", overrideID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /availability-overrides/{id} - Override deleted: tenant=%s, override_id=%d", store.Name, overrideID)
	handlers.RespondMessage(w, http.StatusOK, nil, msgDeleted)
}
