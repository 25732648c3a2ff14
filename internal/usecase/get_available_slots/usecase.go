package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/domain"
	catalogRepo "github.com/ajtaylor-dev/Pagevoo-sub002/internal/infra/storage/catalog"
	hoursRepo "github.com/ajtaylor-dev/Pagevoo-sub002/internal/infra/storage/hours"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/tenant"
)

// Options флаги поведения генерации слотов
type Options struct {
	// EnforceAdvanceWindow включает фильтрацию по min/max advance booking
	EnforceAdvanceWindow bool
}

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	opts         Options
	timeProvider TimeProvider
	metrics      Metrics
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(opts Options, metrics Metrics, logger Logger) *UseCase {
	return &UseCase{
		opts:         opts,
		timeProvider: &RealTimeProvider{},
		metrics:      metrics,
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, store *tenant.Store, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: tenant=%s, service=%d, staff=%v, date=%s",
		store.Name, req.ServiceID, req.StaffID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	resp := &Response{
		Date:      domain.DateOnly(req.Date),
		ServiceID: req.ServiceID,
		StaffID:   req.StaffID,
		Slots:     []domain.Slot{},
	}

	// 2. Получаем услугу
	service, err := store.Catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("GetAvailableSlots: service id=%d is not active", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 3. Настройки тенанта поверх значений по умолчанию
	stored, err := store.Settings.GetAll(ctx)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get settings: %v", err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}
	settings := domain.MergeSettings(stored)

	// 4. Окно предварительной записи (если включено)
	var window *domain.AdvanceWindow
	if uc.opts.EnforceAdvanceWindow {
		w := settings.AdvanceWindow(uc.timeProvider.Now())
		if !w.AllowsDate(req.Date) {
			uc.logger.Info("GetAvailableSlots: date %s is outside the advance window", resp.Date.Format(domain.DateFormat))
			return resp, nil
		}
		window = &w
	}

	// 5. Расписание, исключения и бронирования читаем одним снимком
	var (
		hours    *domain.BusinessHours
		bookings []*domain.Booking
		blocked  bool
	)
	err = store.Tx.DoReadOnly(ctx, func(ctx context.Context) error {
		h, err := store.Hours.GetForDay(ctx, int(req.Date.Weekday()), req.StaffID)
		if err != nil {
			if errors.Is(err, hoursRepo.ErrHoursNotFound) {
				return nil
			}
			return fmt.Errorf("failed to get business hours: %v", err)
		}
		if !h.IsOpen {
			return nil
		}
		hours = h

		blocked, err = store.Overrides.HasFullDayBlock(ctx, req.Date, req.StaffID)
		if err != nil {
			return fmt.Errorf("failed to check overrides: %v", err)
		}
		if blocked {
			return nil
		}

		date := resp.Date
		bookings, err = store.Bookings.List(ctx, domain.BookingFilter{
			Date:            &date,
			ServiceID:       &req.ServiceID,
			StaffID:         req.StaffID,
			ExcludeStatuses: []domain.BookingStatus{domain.StatusCancelled},
		})
		if err != nil {
			return fmt.Errorf("failed to get bookings: %v", err)
		}
		return nil
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if hours == nil {
		uc.logger.Info("GetAvailableSlots: closed on %s", resp.Date.Format(domain.DateFormat))
		return resp, nil
	}
	if blocked {
		uc.logger.Info("GetAvailableSlots: full-day unavailable override on %s", resp.Date.Format(domain.DateFormat))
		return resp, nil
	}

	// 6. Генерируем слоты
	slots := GenerateSlots(hours, service, bookings, settings.SlotIntervalMinutes())
	if window != nil {
		slots = filterByWindow(slots, resp.Date, *window)
	}
	resp.Slots = slots

	uc.metrics.ObserveSlotsGenerated(len(slots))
	uc.logger.Info("GetAvailableSlots: generated %d slots for service=%d, date=%s",
		len(slots), req.ServiceID, resp.Date.Format(domain.DateFormat))

	return resp, nil
}

func filterByWindow(slots []domain.Slot, date time.Time, window domain.AdvanceWindow) []domain.Slot {
	out := make([]domain.Slot, 0, len(slots))
	for _, s := range slots {
		if window.AllowsStart(date, s.Start) {
			out = append(out, s)
		}
	}
	return out
}
