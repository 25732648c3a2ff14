package get_available_slots

import (
	"fmt"

	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/validation"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	errs := validation.Errors{}

	if req.ServiceID <= 0 {
		errs.Add("service_id", "field is required")
	}
	if req.StaffID != nil && *req.StaffID <= 0 {
		errs.Add("staff_id", "must be greater than 0")
	}
	if req.Date.IsZero() {
		errs.Add("date", "field is required")
	}

	if err := errs.OrNil(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}
