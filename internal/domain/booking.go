package domain

import (
	"errors"
	"time"

	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/types"
)

var (
	// ErrInvalidTransition is returned when a status change would break the lifecycle order.
	ErrInvalidTransition = errors.New("domain: invalid booking status transition")

	// ErrUnknownStatus is returned for a status outside the known set.
	ErrUnknownStatus = errors.New("domain: unknown booking status")
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusNoShow    BookingStatus = "no_show"
)

// IsValid reports whether s is a known status.
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed out of s.
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// PaymentStatus is tracked only; no payment processing happens here.
type PaymentStatus string

const (
	PaymentNotRequired   PaymentStatus = "not_required"
	PaymentUnpaid        PaymentStatus = "unpaid"
	PaymentPending       PaymentStatus = "pending"
	PaymentDepositPaid   PaymentStatus = "deposit_paid"
	PaymentPaid          PaymentStatus = "paid"
	PaymentRefunded      PaymentStatus = "refunded"
	PaymentPartialRefund PaymentStatus = "partial_refund"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentNotRequired, PaymentUnpaid, PaymentPending, PaymentDepositPaid,
		PaymentPaid, PaymentRefunded, PaymentPartialRefund:
		return true
	}
	return false
}

// Booking represents a reservation in a tenant's ledger
type Booking struct {
	ID         int64
	Reference  string
	ServiceID  int64
	StaffID    *int64
	ResourceID *int64

	CustomerName  string
	CustomerEmail string
	CustomerPhone *string
	CustomerNotes *string

	BookingDate time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	PartySize   int

	Status             BookingStatus
	CancellationReason *string

	TotalPrice       float64
	DepositPaid      float64
	AmountPaid       float64
	PaymentStatus    PaymentStatus
	PaymentMethod    *string
	PaymentReference *string
	AdminNotes       *string

	ConfirmedAt *time.Time
	CancelledAt *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Display fields joined from the catalog on reads
	ServiceName     *string
	ServiceDuration *int
	ServicePrice    *float64
	ServiceColor    *string
	StaffName       *string
	StaffColor      *string
	ResourceName    *string
}

// IsActive returns true unless the booking was cancelled.
// Only cancelled bookings release their window.
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// CanBeCancelled returns true while the booking is not in a terminal state
func (b *Booking) CanBeCancelled() bool {
	return !b.Status.IsTerminal()
}

// CanTransitionTo reports whether moving to next keeps the lifecycle monotonic.
// Repeating the current status is always allowed and is a no-op.
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	if b.Status == next {
		return true
	}
	if b.Status.IsTerminal() || next == StatusPending {
		return false
	}
	return next.IsValid()
}

// ApplyStatus moves the booking to next, stamping the matching timestamp once.
// It reports whether anything changed.
func (b *Booking) ApplyStatus(next BookingStatus, now time.Time) (bool, error) {
	if !next.IsValid() {
		return false, ErrUnknownStatus
	}
	if !b.CanTransitionTo(next) {
		return false, ErrInvalidTransition
	}
	if b.Status == next {
		return false, nil
	}

	b.Status = next
	switch next {
	case StatusConfirmed:
		if b.ConfirmedAt == nil {
			b.ConfirmedAt = &now
		}
	case StatusCancelled:
		if b.CancelledAt == nil {
			b.CancelledAt = &now
		}
	case StatusCompleted:
		if b.CompletedAt == nil {
			b.CompletedAt = &now
		}
	}
	return true, nil
}

// Confirm is ApplyStatus(StatusConfirmed).
func (b *Booking) Confirm(now time.Time) (bool, error) {
	return b.ApplyStatus(StatusConfirmed, now)
}

// Cancel moves the booking to cancelled and keeps the first reason given.
func (b *Booking) Cancel(reason *string, now time.Time) (bool, error) {
	changed, err := b.ApplyStatus(StatusCancelled, now)
	if err != nil || !changed {
		return changed, err
	}
	if reason != nil && *reason != "" {
		b.CancellationReason = reason
	}
	return true, nil
}

// Window returns the booked interval without buffers.
func (b *Booking) Window() Interval {
	return NewInterval(b.StartTime, b.EndTime)
}

// BookingFilter describes a ledger query
type BookingFilter struct {
	Status     *BookingStatus
	ServiceID  *int64
	StaffID    *int64
	ResourceID *int64

	Date      *time.Time // exact date, ignored when StartDate and EndDate are both set
	StartDate *time.Time
	EndDate   *time.Time

	Upcoming bool      // date >= Today and status not cancelled/completed
	Today    time.Time // reference date for Upcoming

	Search string // LIKE over customer name, email, phone and reference

	ExcludeStatuses []BookingStatus
	ExcludeID       *int64

	// ForUpdate locks the matched rows. Only honoured inside a writable
	// transaction; snapshot reads must leave it unset.
	ForUpdate bool
}
