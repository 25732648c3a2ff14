package get_dashboard

import (
	"net/http"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/api/handlers"
)

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

// Handle GET /api/v1/dashboard
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	store, ok := handlers.Store(w, r)
	if !ok {
		return
	}

	stats, err := h.service.Dashboard(r.Context(), store)
	if err != nil {
		h.logger.Error("GET /dashboard - Failed to build stats: tenant=%s, error=%v", store.Name, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /dashboard - Stats retrieved: tenant=%s", store.Name)
	handlers.RespondJSON(w, http.StatusOK, stats)
}
