package get_settings

import (
	"net/http"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/api/handlers"
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

// Handle GET /api/v1/settings
// Незаданные ключи возвращаются со значениями по умолчанию
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	store, ok := handlers.Store(w, r)
	if !ok {
		return
	}

	settings, err := h.service.Get(r.Context(), store)
	if err != nil {
		h.logger.Error("GET /settings - Failed to get settings: tenant=%s, error=%v", store.Name, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /settings - Settings retrieved: tenant=%s, keys=%d", store.Name, len(settings))
	handlers.RespondJSON(w, http.StatusOK, settings)
}
