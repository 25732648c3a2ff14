package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/domain"
	bookingRepo "github.com/ajtaylor-dev/Pagevoo-sub002/internal/infra/storage/booking"
	catalogRepo "github.com/ajtaylor-dev/Pagevoo-sub002/internal/infra/storage/catalog"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/tenant"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/usecase/slotguard"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/reference"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/validation"
)

// Options флаги поведения создания бронирований
type Options struct {
	// PreventDoubleBooking включает проверку пересечений под блокировкой
	PreventDoubleBooking bool
	// EnforceAdvanceWindow включает проверку min/max advance booking
	EnforceAdvanceWindow bool
	// ReferencePrefix префикс номера бронирования ("BK")
	ReferencePrefix string
	// ReferenceAttempts сколько раз повторять вставку при коллизии номера
	ReferenceAttempts int
}

// UseCase use case для создания бронирования
type UseCase struct {
	opts         Options
	generate     ReferenceGenerator
	timeProvider TimeProvider
	metrics      Metrics
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(opts Options, metrics Metrics, logger Logger) *UseCase {
	if opts.ReferencePrefix == "" {
		opts.ReferencePrefix = domain.DefaultReferencePrefix
	}
	if opts.ReferenceAttempts <= 0 {
		opts.ReferenceAttempts = 5
	}
	return &UseCase{
		opts:         opts,
		generate:     reference.Generate,
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

// WithReferenceGenerator подменяет генератор номеров (для тестов)
func (uc *UseCase) WithReferenceGenerator(gen ReferenceGenerator) *UseCase {
	uc.generate = gen
	return uc
}

// Execute выполняет use case создания бронирования.
// Проверка окна и вставка идут в одной сериализуемой транзакции под advisory-блокировкой.
func (uc *UseCase) Execute(ctx context.Context, store *tenant.Store, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: tenant=%s, service=%d, staff=%v, resource=%v, date=%s, time=%s-%s",
		store.Name, req.ServiceID, req.StaffID, req.ResourceID,
		req.BookingDate.Format(domain.DateFormat), req.StartTime, req.EndTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услугу
	service, err := store.Catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("CreateBooking: service id=%d is not active", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 4. Окно предварительной записи (если включено)
	if uc.opts.EnforceAdvanceWindow {
		stored, err := store.Settings.GetAll(ctx)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get settings: %v", err)
			return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
		}
		if err := validateAdvanceWindow(req, domain.MergeSettings(stored), now); err != nil {
			uc.logger.Warn("CreateBooking: outside advance window: %v", err)
			return nil, err
		}
	}

	// 5. Собираем бронирование; начальный статус проходит машину состояний
	template, err := newBooking(req, now)
	if err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, err
	}

	// 6. Вставка с повтором при коллизии номера на уникальном индексе
	var result *domain.Booking
	for attempt := 1; attempt <= uc.opts.ReferenceAttempts; attempt++ {
		result, err = uc.createOnce(ctx, store, service, template)
		if !errors.Is(err, bookingRepo.ErrDuplicateReference) {
			break
		}
		uc.logger.Warn("CreateBooking: reference collision, attempt %d/%d", attempt, uc.opts.ReferenceAttempts)
	}
	if err != nil {
		switch {
		case errors.Is(err, ErrSlotNotAvailable), errors.Is(err, ErrReferenceExhausted), errors.Is(err, ErrInternal):
			return nil, err
		case errors.Is(err, bookingRepo.ErrDuplicateReference):
			uc.logger.Error("CreateBooking: %v", ErrReferenceExhausted)
			return nil, ErrReferenceExhausted
		default:
			uc.logger.Error("CreateBooking: transaction failed: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
	}

	uc.metrics.IncBookingCreated(string(result.Status))
	uc.logger.Info("CreateBooking: successfully created booking id=%d, reference=%s", result.ID, result.Reference)

	return &Response{Booking: result}, nil
}

func (uc *UseCase) createOnce(
	ctx context.Context,
	store *tenant.Store,
	service *domain.Service,
	template *domain.Booking,
) (*domain.Booking, error) {
	// Каждая попытка работает с копией, чтобы номер и ID прошлой попытки не протекали
	draft := *template
	booking := &draft

	var created *domain.Booking
	err := store.Tx.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Повторная проверка окна под блокировкой области
		if uc.opts.PreventDoubleBooking && booking.IsActive() {
			conflict, err := slotguard.FindConflict(txCtx, store, service, slotguard.Candidate{
				ServiceID:  booking.ServiceID,
				StaffID:    booking.StaffID,
				ResourceID: booking.ResourceID,
				Date:       booking.BookingDate,
				StartTime:  booking.StartTime,
				EndTime:    booking.EndTime,
			})
			if err != nil {
				uc.logger.Error("CreateBooking: %v", err)
				return fmt.Errorf("%w: %w", ErrInternal, err)
			}
			if conflict != nil {
				uc.metrics.IncBookingConflict()
				uc.logger.Warn("CreateBooking: window %s-%s overlaps booking id=%d",
					booking.StartTime, booking.EndTime, conflict.ID)
				return ErrSlotNotAvailable
			}
		}

		// 6.2. Номер бронирования, свободный на момент проверки
		ref, err := uc.allocateReference(txCtx, store)
		if err != nil {
			return err
		}
		booking.Reference = ref

		// 6.3. Сохраняем бронирование
		created, err = store.Bookings.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrDuplicateReference) {
				return bookingRepo.ErrDuplicateReference
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}
		return nil
	})
	return created, err
}

func (uc *UseCase) allocateReference(ctx context.Context, store *tenant.Store) (string, error) {
	for i := 0; i < uc.opts.ReferenceAttempts; i++ {
		ref, err := uc.generate(uc.opts.ReferencePrefix)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInternal, err)
		}
		exists, err := store.Bookings.ReferenceExists(ctx, ref)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to check reference %s: %v", ref, err)
			return "", fmt.Errorf("%w: failed to check reference: %w", ErrInternal, err)
		}
		if !exists {
			return ref, nil
		}
	}
	return "", ErrReferenceExhausted
}

func newBooking(req *Request, now time.Time) (*domain.Booking, error) {
	booking := &domain.Booking{
		ServiceID:     req.ServiceID,
		StaffID:       req.StaffID,
		ResourceID:    req.ResourceID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		CustomerNotes: req.CustomerNotes,
		BookingDate:   domain.DateOnly(req.BookingDate),
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		PartySize:     domain.DefaultPartySize,
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentUnpaid,
		AdminNotes:    req.AdminNotes,
	}
	if req.PartySize != nil {
		booking.PartySize = *req.PartySize
	}
	if req.TotalPrice != nil {
		booking.TotalPrice = *req.TotalPrice
	}
	// Начальный статус ставим через машину состояний, чтобы проставить confirmed_at и т.п.
	if req.Status != nil {
		if _, err := booking.ApplyStatus(*req.Status, now); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, validation.Errors{"status": err.Error()})
		}
	}
	return booking, nil
}
