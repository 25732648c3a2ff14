// Package slotguard повторно проверяет окно бронирования внутри транзакции записи.
package slotguard

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/domain"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/tenant"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/types"
)

// Candidate окно, которое собираются занять
type Candidate struct {
	ServiceID  int64
	StaffID    *int64
	ResourceID *int64
	Date       time.Time
	StartTime  types.TimeString
	EndTime    types.TimeString
	ExcludeID  int64 // редактируемое бронирование, 0 при создании
}

// ScopeKey ключ блокировки (service, staff или resource, date)
func ScopeKey(c Candidate) string {
	scope := "-"
	switch {
	case c.StaffID != nil:
		scope = "staff:" + strconv.FormatInt(*c.StaffID, 10)
	case c.ResourceID != nil:
		scope = "resource:" + strconv.FormatInt(*c.ResourceID, 10)
	}
	return fmt.Sprintf("booking:%d:%s:%s", c.ServiceID, scope, c.Date.Format(domain.DateFormat))
}

// FindConflict берёт блокировку области и ищет пересечение с буферами услуги.
// Вызывается внутри транзакции, блокировка держится до её завершения.
func FindConflict(ctx context.Context, store *tenant.Store, service *domain.Service, c Candidate) (*domain.Booking, error) {
	if err := store.Bookings.LockScope(ctx, ScopeKey(c)); err != nil {
		return nil, fmt.Errorf("failed to lock booking scope: %w", err)
	}

	date := domain.DateOnly(c.Date)
	filter := domain.BookingFilter{
		Date:            &date,
		ServiceID:       &c.ServiceID,
		ExcludeStatuses: []domain.BookingStatus{domain.StatusCancelled},
		ForUpdate:       true,
	}
	switch {
	case c.StaffID != nil:
		filter.StaffID = c.StaffID
	case c.ResourceID != nil:
		filter.ResourceID = c.ResourceID
	}

	bookings, err := store.Bookings.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}

	candidate := domain.NewInterval(c.StartTime, c.EndTime)
	return domain.FindConflict(candidate, bookings, service.BufferBeforeMinutes, service.BufferAfterMinutes, c.ExcludeID), nil
}
