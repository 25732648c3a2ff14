package update_settings

import (
	"errors"
	"net/http"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/api/handlers"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/service/settings"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUpdated            = "настройки обновлены"
)

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/settings
// Тело - JSON объект ключ/значение, каждый ключ сохраняется отдельно
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	store, ok := handlers.Store(w, r)
	if !ok {
		return
	}

	var values map[string]interface{}
	if err := handlers.DecodeJSON(r, &values); err != nil || values == nil {
		h.logger.Warn("PUT /settings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), store, values)
	if err != nil {
		switch {
		case errors.Is(err, settings.ErrInvalidInput):
			h.logger.Warn("PUT /settings - Validation failed: %v", err)
			handlers.RespondValidationError(w, err)

		default:
			h.logger.Error("PUT /settings - Failed to update settings: tenant=%s, error=%v", store.Name, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /settings - Settings updated: tenant=%s, keys=%d", store.Name, len(values))
	handlers.RespondMessage(w, http.StatusOK, result, msgUpdated)
}
