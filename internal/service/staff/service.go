package staff

import (
	"context"
	"errors"
	"fmt"

	catalogRepo "github.com/ajtaylor-dev/Pagevoo-sub002/internal/infra/storage/catalog"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/tenant"
)

// Service удаление сотрудников вместе с зависимыми данными
type Service struct {
	logger Logger
}

// NewService создает новый экземпляр сервиса сотрудников
func NewService(logger Logger) *Service {
	return &Service{logger: logger}
}

// Delete удаляет связи с услугами, расписание, исключения и самого сотрудника одной транзакцией.
// Бронирования сотрудника остаются в журнале.
func (s *Service) Delete(ctx context.Context, store *tenant.Store, staffID int64) error {
	s.logger.Info("DeleteStaff: tenant=%s, staff id=%d", store.Name, staffID)

	err := store.Tx.Do(ctx, func(txCtx context.Context) error {
		// 1. Связи с услугами
		if err := store.Catalog.DetachStaffServices(txCtx, staffID); err != nil {
			return fmt.Errorf("detach services: %w", err)
		}

		// 2. Недельное расписание
		if err := store.Hours.DeleteByStaff(txCtx, staffID); err != nil {
			return fmt.Errorf("delete hours: %w", err)
		}

		// 3. Исключения по датам
		if err := store.Overrides.DeleteByStaff(txCtx, staffID); err != nil {
			return fmt.Errorf("delete overrides: %w", err)
		}

		// 4. Сам сотрудник
		return store.Catalog.DeleteStaff(txCtx, staffID)
	})
	if err != nil {
		if errors.Is(err, catalogRepo.ErrStaffNotFound) {
			s.logger.Warn("DeleteStaff: staff id=%d not found", staffID)
			return ErrStaffNotFound
		}
		s.logger.Error("DeleteStaff: repository error for staff id=%d: %v", staffID, err)
		return fmt.Errorf("%w: DeleteStaff - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteStaff: successfully deleted staff id=%d", staffID)
	return nil
}
