package bookings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/domain"
	bookingRepo "github.com/ajtaylor-dev/Pagevoo-sub002/internal/infra/storage/booking"
	catalogRepo "github.com/ajtaylor-dev/Pagevoo-sub002/internal/infra/storage/catalog"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/service/bookings/models"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/tenant"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/usecase/slotguard"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/validation"
)

// Options флаги поведения сервиса
type Options struct {
	// PreventDoubleBooking включает проверку пересечений при переносе бронирования
	PreventDoubleBooking bool
}

// Service сервис для работы с бронированиями
type Service struct {
	opts         Options
	timeProvider TimeProvider
	metrics      Metrics
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(opts Options, metrics Metrics, logger Logger) *Service {
	return &Service{
		opts:         opts,
		timeProvider: &RealTimeProvider{},
		metrics:      metrics,
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// List получает бронирования с фильтрами.
// Сортировка: дата по убыванию, затем время начала по возрастанию.
func (s *Service) List(ctx context.Context, store *tenant.Store, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("ListBookings: tenant=%s, status=%v, service=%v, staff=%v, upcoming=%t, search=%q",
		store.Name, req.Status, req.ServiceID, req.StaffID, req.Upcoming, req.Search)

	if req.Status != nil && !req.Status.IsValid() {
		s.logger.Warn("ListBookings: invalid status=%s", *req.Status)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, validation.Errors{"status": "unknown booking status"})
	}

	today := domain.DateOnly(s.timeProvider.Now())
	bookings, err := store.Bookings.List(ctx, req.ToDomainFilter(today))
	if err != nil {
		s.logger.Error("ListBookings: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListBookings: successfully fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// GetByID получает бронирование с отображаемыми полями услуги, сотрудника и ресурса
func (s *Service) GetByID(ctx context.Context, store *tenant.Store, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	booking, err := s.get(ctx, store, "GetByID", id)
	if err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// Update частично обновляет бронирование по списку разрешённых полей
func (s *Service) Update(ctx context.Context, store *tenant.Store, id int64, req *models.UpdateBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Update: updating booking id=%d", id)

	now := s.timeProvider.Now()
	var result *domain.Booking

	run := store.Tx.Do
	if s.opts.PreventDoubleBooking {
		run = store.Tx.DoSerializable
	}

	err := run(ctx, func(txCtx context.Context) error {
		// 1. Читаем бронирование под блокировкой строки
		booking, err := s.get(txCtx, store, "Update", id)
		if err != nil {
			return err
		}
		prev := *booking

		// 2. Сливаем поля
		errs := mergeUpdate(booking, req)

		// 3. Смена статуса идёт через машину состояний
		if req.Status.Set {
			if req.Status.Value == nil {
				errs.Add("status", "field is required")
			} else if _, err := booking.ApplyStatus(*req.Status.Value, now); err != nil {
				if errors.Is(err, domain.ErrUnknownStatus) {
					errs.Add("status", "unknown booking status")
				} else {
					s.logger.Warn("Update: booking id=%d cannot move %s -> %s", id, prev.Status, *req.Status.Value)
					return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, prev.Status, *req.Status.Value)
				}
			}
		}

		// 4. Проверяем итоговое состояние
		if err := validateState(booking, errs); err != nil {
			if _, ok := validation.Fields(err); ok {
				s.logger.Warn("Update: validation failed for booking id=%d: %v", id, err)
				return fmt.Errorf("%w: %w", ErrInvalidInput, err)
			}
			return fmt.Errorf("%w: Update - validation error: %v", ErrInternal, err)
		}

		// 5. Перенос активного бронирования проверяем на пересечения
		if s.opts.PreventDoubleBooking && booking.IsActive() && windowChanged(&prev, booking) {
			if err := s.checkWindow(txCtx, store, booking); err != nil {
				return err
			}
		}

		// 6. Сохраняем
		updated, err := store.Bookings.Update(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			s.logger.Error("Update: repository error for booking id=%d: %v", id, err)
			return fmt.Errorf("%w: Update - repository error: %w", ErrInternal, err)
		}

		if prev.Status != updated.Status {
			s.metrics.IncBookingTransition(string(prev.Status), string(updated.Status))
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, s.wrapTxError("Update", err)
	}

	s.logger.Info("Update: successfully updated booking id=%d", id)
	return models.FromDomainBooking(result), nil
}

// Confirm подтверждает бронирование. Повторный вызов не меняет confirmed_at.
func (s *Service) Confirm(ctx context.Context, store *tenant.Store, id int64) (*models.BookingResponse, error) {
	s.logger.Info("Confirm: confirming booking id=%d", id)

	result, err := s.transition(ctx, store, "Confirm", id, func(b *domain.Booking, now time.Time) (bool, error) {
		return b.Confirm(now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Confirm: booking id=%d is confirmed", id)
	return models.FromDomainBooking(result), nil
}

// Cancel отменяет бронирование с причиной.
// Повторный вызов не меняет cancelled_at и первую причину.
func (s *Service) Cancel(ctx context.Context, store *tenant.Store, id int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d", id)

	if req.Reason != nil && len([]rune(*req.Reason)) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, validation.Errors{
			"reason": fmt.Sprintf("must be at most %d", domain.MaxCancellationReasonLength),
		})
	}

	result, err := s.transition(ctx, store, "Cancel", id, func(b *domain.Booking, now time.Time) (bool, error) {
		return b.Cancel(req.Reason, now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: booking id=%d is cancelled", id)
	return models.FromDomainBooking(result), nil
}

// Delete удаляет бронирование без отмены (административная очистка)
func (s *Service) Delete(ctx context.Context, store *tenant.Store, id int64) error {
	s.logger.Info("Delete: deleting booking id=%d", id)

	if err := store.Bookings.Delete(ctx, id); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Delete: booking id=%d not found", id)
			return ErrBookingNotFound
		}
		s.logger.Error("Delete: repository error for booking id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted booking id=%d", id)
	return nil
}

// Dashboard считает бронирования на сегодня, неделю и месяц без отменённых
func (s *Service) Dashboard(ctx context.Context, store *tenant.Store) (*models.DashboardResponse, error) {
	now := s.timeProvider.Now()
	today := domain.DateOnly(now)
	weekStart, weekEnd := weekBounds(today)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	monthEnd := monthStart.AddDate(0, 1, -1)
	notCancelled := []domain.BookingStatus{domain.StatusCancelled}
	pending := domain.StatusPending

	s.logger.Info("Dashboard: tenant=%s, today=%s", store.Name, today.Format(domain.DateFormat))

	var stats domain.DashboardStats
	queries := []struct {
		dst    *int
		filter domain.BookingFilter
	}{
		{&stats.Today, domain.BookingFilter{Date: &today, ExcludeStatuses: notCancelled}},
		{&stats.Pending, domain.BookingFilter{Status: &pending}},
		{&stats.Upcoming, domain.BookingFilter{Upcoming: true, Today: today}},
		{&stats.ThisWeek, domain.BookingFilter{StartDate: &weekStart, EndDate: &weekEnd, ExcludeStatuses: notCancelled}},
		{&stats.ThisMonth, domain.BookingFilter{StartDate: &monthStart, EndDate: &monthEnd, ExcludeStatuses: notCancelled}},
	}

	err := store.Tx.DoReadOnly(ctx, func(txCtx context.Context) error {
		for _, q := range queries {
			n, err := store.Bookings.Count(txCtx, q.filter)
			if err != nil {
				return err
			}
			*q.dst = n
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Dashboard: repository error: %v", err)
		return nil, fmt.Errorf("%w: Dashboard - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainStats(stats), nil
}

// Calendar возвращает события за период (по умолчанию текущий месяц) по возрастанию времени
func (s *Service) Calendar(ctx context.Context, store *tenant.Store, req *models.CalendarRequest) ([]models.CalendarEventResponse, error) {
	today := domain.DateOnly(s.timeProvider.Now())
	start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	end := start.AddDate(0, 1, -1)
	if req.StartDate != nil {
		start = *req.StartDate
	}
	if req.EndDate != nil {
		end = *req.EndDate
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, validation.Errors{"end_date": "must not be before start_date"})
	}

	s.logger.Info("Calendar: tenant=%s, period=%s..%s", store.Name, start.Format(domain.DateFormat), end.Format(domain.DateFormat))

	bookings, err := store.Bookings.List(ctx, domain.BookingFilter{
		StartDate:       &start,
		EndDate:         &end,
		ExcludeStatuses: []domain.BookingStatus{domain.StatusCancelled},
	})
	if err != nil {
		s.logger.Error("Calendar: repository error: %v", err)
		return nil, fmt.Errorf("%w: Calendar - repository error: %v", ErrInternal, err)
	}

	sort.SliceStable(bookings, func(i, j int) bool {
		if !bookings[i].BookingDate.Equal(bookings[j].BookingDate) {
			return bookings[i].BookingDate.Before(bookings[j].BookingDate)
		}
		return bookings[i].StartTime.IsBefore(bookings[j].StartTime)
	})

	events := make([]domain.CalendarEvent, 0, len(bookings))
	for _, b := range bookings {
		events = append(events, domain.NewCalendarEvent(b))
	}

	return models.FromDomainEvents(events), nil
}

// Вспомогательные методы

func (s *Service) get(ctx context.Context, store *tenant.Store, op string, id int64) (*domain.Booking, error) {
	booking, err := store.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
	}
	return booking, nil
}

// transition читает, меняет статус и сохраняет в одной транзакции.
// Если статус уже целевой, запись не выполняется.
func (s *Service) transition(
	ctx context.Context,
	store *tenant.Store,
	op string,
	id int64,
	apply func(b *domain.Booking, now time.Time) (bool, error),
) (*domain.Booking, error) {
	now := s.timeProvider.Now()
	var result *domain.Booking

	err := store.Tx.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.get(txCtx, store, op, id)
		if err != nil {
			return err
		}
		from := booking.Status

		changed, err := apply(booking, now)
		if err != nil {
			s.logger.Warn("%s: booking id=%d in status %s: %v", op, id, from, err)
			return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, op, from)
		}
		if !changed {
			s.logger.Info("%s: booking id=%d already %s", op, id, from)
			result = booking
			return nil
		}

		updated, err := store.Bookings.Update(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
			return fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
		}

		s.metrics.IncBookingTransition(string(from), string(updated.Status))
		result = updated
		return nil
	})
	if err != nil {
		return nil, s.wrapTxError(op, err)
	}
	return result, nil
}

func (s *Service) checkWindow(ctx context.Context, store *tenant.Store, booking *domain.Booking) error {
	service, err := store.Catalog.GetService(ctx, booking.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			s.logger.Warn("Update: service id=%d not found", booking.ServiceID)
			return ErrServiceNotFound
		}
		s.logger.Error("Update: failed to get service id=%d: %v", booking.ServiceID, err)
		return fmt.Errorf("%w: Update - failed to get service: %w", ErrInternal, err)
	}

	conflict, err := slotguard.FindConflict(ctx, store, service, slotguard.Candidate{
		ServiceID:  booking.ServiceID,
		StaffID:    booking.StaffID,
		ResourceID: booking.ResourceID,
		Date:       booking.BookingDate,
		StartTime:  booking.StartTime,
		EndTime:    booking.EndTime,
		ExcludeID:  booking.ID,
	})
	if err != nil {
		s.logger.Error("Update: %v", err)
		return fmt.Errorf("%w: Update - %w", ErrInternal, err)
	}
	if conflict != nil {
		s.metrics.IncBookingConflict()
		s.logger.Warn("Update: booking id=%d overlaps booking id=%d", booking.ID, conflict.ID)
		return ErrSlotNotAvailable
	}
	return nil
}

// wrapTxError оставляет известные ошибки сервиса как есть, остальное считает внутренней ошибкой
func (s *Service) wrapTxError(op string, err error) error {
	for _, known := range []error{
		ErrBookingNotFound, ErrServiceNotFound, ErrInvalidTransition,
		ErrSlotNotAvailable, ErrInvalidInput, ErrInternal,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	s.logger.Error("%s: transaction failed: %v", op, err)
	return fmt.Errorf("%w: %s - transaction failed: %v", ErrInternal, op, err)
}

// weekBounds неделя с понедельника по воскресенье
func weekBounds(day time.Time) (time.Time, time.Time) {
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 6)
}
