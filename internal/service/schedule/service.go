package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/domain"
	overrideRepo "github.com/ajtaylor-dev/Pagevoo-sub002/internal/infra/storage/override"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/service/schedule/models"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/tenant"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/validation"
)

// Service сервис недельного расписания и исключений по датам
type Service struct {
	logger Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(logger Logger) *Service {
	return &Service{logger: logger}
}

// GetHours возвращает строки расписания области (сотрудник или общая), по дням недели
func (s *Service) GetHours(ctx context.Context, store *tenant.Store, staffID *int64) ([]models.HoursResponse, error) {
	s.logger.Info("GetHours: tenant=%s, staff=%v", store.Name, staffID)

	hours, err := store.Hours.ListByScope(ctx, staffID)
	if err != nil {
		s.logger.Error("GetHours: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetHours - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainHoursList(hours), nil
}

// UpdateHours записывает строки одной транзакцией и возвращает итоговое расписание области
func (s *Service) UpdateHours(ctx context.Context, store *tenant.Store, req *models.UpdateHoursRequest) ([]models.HoursResponse, error) {
	s.logger.Info("UpdateHours: tenant=%s, staff=%v, rows=%d", store.Name, req.StaffID, len(req.Hours))

	// 1. Валидируем строки
	if err := validateHours(req); err != nil {
		if _, ok := validation.Fields(err); ok {
			s.logger.Warn("UpdateHours: validation failed: %v", err)
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("%w: UpdateHours - validation error: %v", ErrInternal, err)
	}

	// 2. Записываем все строки и перечитываем область
	var hours []*domain.BusinessHours
	err := store.Tx.Do(ctx, func(txCtx context.Context) error {
		for _, row := range req.Hours {
			if _, err := store.Hours.Upsert(txCtx, row.ToDomainHours(req.StaffID)); err != nil {
				return fmt.Errorf("upsert day %d: %w", row.DayOfWeek, err)
			}
		}

		var err error
		hours, err = store.Hours.ListByScope(txCtx, req.StaffID)
		return err
	})
	if err != nil {
		s.logger.Error("UpdateHours: repository error: %v", err)
		return nil, fmt.Errorf("%w: UpdateHours - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateHours: successfully saved %d rows", len(req.Hours))
	return models.FromDomainHoursList(hours), nil
}

// ListOverrides возвращает исключения по дате и времени начала
func (s *Service) ListOverrides(ctx context.Context, store *tenant.Store, req *models.ListOverridesRequest) ([]models.OverrideResponse, error) {
	s.logger.Info("ListOverrides: tenant=%s, staff=%v", store.Name, req.StaffID)

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, validation.Errors{"end_date": "must not be before start_date"})
	}

	overrides, err := store.Overrides.List(ctx, domain.OverrideFilter{
		StaffID:   req.StaffID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		s.logger.Error("ListOverrides: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListOverrides - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainOverrideList(overrides), nil
}

// CreateOverride создает исключение. Без времени исключение действует весь день.
func (s *Service) CreateOverride(ctx context.Context, store *tenant.Store, req *models.CreateOverrideRequest) (*models.OverrideResponse, error) {
	s.logger.Info("CreateOverride: tenant=%s, staff=%v, date=%s, type=%s", store.Name, req.StaffID, req.Date, req.Type)

	if err := validateOverride(req); err != nil {
		if _, ok := validation.Fields(err); ok {
			s.logger.Warn("CreateOverride: validation failed: %v", err)
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("%w: CreateOverride - validation error: %v", ErrInternal, err)
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, validation.Errors{"date": "must be a date in " + domain.DateFormat + " format"})
	}

	created, err := store.Overrides.Create(ctx, &domain.AvailabilityOverride{
		StaffID:   req.StaffID,
		Date:      date,
		Type:      domain.OverrideType(req.Type),
		StartTime: value(req.StartTime),
		EndTime:   value(req.EndTime),
		Reason:    req.Reason,
	})
	if err != nil {
		s.logger.Error("CreateOverride: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateOverride - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateOverride: successfully created override id=%d", created.ID)
	return models.FromDomainOverride(created), nil
}

// DeleteOverride удаляет исключение по ID
func (s *Service) DeleteOverride(ctx context.Context, store *tenant.Store, id int64) error {
	s.logger.Info("DeleteOverride: deleting override id=%d", id)

	if err := store.Overrides.Delete(ctx, id); err != nil {
		if errors.Is(err, overrideRepo.ErrOverrideNotFound) {
			s.logger.Warn("DeleteOverride: override id=%d not found", id)
			return ErrOverrideNotFound
		}
		s.logger.Error("DeleteOverride: repository error for override id=%d: %v", id, err)
		return fmt.Errorf("%w: DeleteOverride - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteOverride: successfully deleted override id=%d", id)
	return nil
}
