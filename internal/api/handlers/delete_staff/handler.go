package delete_staff

import (
	"errors"
	"net/http"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/api/handlers"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/service/staff"
)

const (
	msgInvalidStaffID = "некорректный ID сотрудника"
	msgNotFound       = "сотрудник не найден"
	msgDeleted        = "сотрудник удалён"
)

type Handler struct {
	service StaffService
	logger  Logger
}

func NewHandler(service StaffService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/staff/{id}
// Вместе с сотрудником удаляются его расписание, исключения и привязки к услугам
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	store, ok := handlers.Store(w, r)
	if !ok {
		return
	}

	staffID, err := handlers.PathID(r, "id")
	if err != nil {
		h.logger.Warn("DELETE /staff/{id} - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	if err := h.service.Delete(r.Context(), store, staffID); err != nil {
		switch {
		case errors.Is(err, staff.ErrStaffNotFound):
			h.logger.Warn("DELETE /staff/{id} - Staff not found: staff_id=%d", staffID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /staff/{id} - Failed to delete staff: staff_id=%d, error=%v", staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /staff/{id} - Staff deleted: tenant=%s, staff_id=%d", store.Name, staffID)
	handlers.RespondMessage(w, http.StatusOK, nil, msgDeleted)
}
