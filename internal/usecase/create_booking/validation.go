package create_booking

import (
	"fmt"
	"time"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/domain"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/validation"
)

var validate = validation.New()

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	errs := validation.Errors{}

	if err := validate.Struct(req); err != nil {
		fields, ok := validation.Fields(err)
		if !ok {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		errs = fields
	}

	// Конец строго позже начала
	if _, bad := errs["start_time"]; !bad {
		if _, bad := errs["end_time"]; !bad && !req.EndTime.IsAfter(req.StartTime) {
			errs.Add("end_time", "must be after start_time")
		}
	}

	if err := errs.OrNil(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}

// validateAdvanceWindow проверяет min/max advance booking
func validateAdvanceWindow(req *Request, settings domain.Settings, now time.Time) error {
	window := settings.AdvanceWindow(now)
	errs := validation.Errors{}

	switch {
	case !window.AllowsDate(req.BookingDate):
		errs.Add("booking_date", fmt.Sprintf("must be between today and %d days ahead", settings.MaxAdvanceBookingDays()))
	case !window.AllowsStart(req.BookingDate, req.StartTime):
		errs.Add("start_time", fmt.Sprintf("must be at least %d hours from now", settings.MinAdvanceBookingHours()))
	}

	if err := errs.OrNil(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}
