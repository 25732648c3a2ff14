package list_overrides

import (
	"errors"
	"net/http"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/api/handlers"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/service/schedule"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/service/schedule/models"
)

const msgInvalidParams = "некорректные параметры запроса"

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

// Handle GET /api/v1/availability-overrides
// Query params: staff_id, start_date, end_date (опциональны)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	store, ok := handlers.Store(w, r)
	if !ok {
		return
	}

	req, err := toServiceRequest(r)
	if err != nil {
		h.logger.Warn("GET /availability-overrides - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	overrides, err := h.service.ListOverrides(r.Context(), store, req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("GET /availability-overrides - Validation failed: %v", err)
			handlers.RespondValidationError(w, err)

		default:
			h.logger.Error("GET /availability-overrides - Failed to list overrides: tenant=%s, error=%v", store.Name, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /availability-overrides - Overrides retrieved: tenant=%s, count=%d", store.Name, len(overrides))
	handlers.RespondJSON(w, http.StatusOK, overrides)
}

func toServiceRequest(r *http.Request) (*models.ListOverridesRequest, error) {
	var (
		req models.ListOverridesRequest
		err error
	)
	if req.StaffID, err = handlers.QueryID(r, "staff_id"); err != nil {
		return nil, err
	}
	if req.StartDate, err = handlers.QueryDate(r, "start_date"); err != nil {
		return nil, err
	}
	if req.EndDate, err = handlers.QueryDate(r, "end_date"); err != nil {
		return nil, err
	}
	return &req, nil
}
