package bookings

import (
	"time"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/domain"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/service/bookings/models"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/validation"
)

var validate = validation.New()

// bookingState итоговые поля бронирования после слияния, проверяются целиком
type bookingState struct {
	ServiceID     int64                `json:"service_id" validate:"gt=0"`
	StaffID       *int64               `json:"staff_id" validate:"omitempty,gt=0"`
	ResourceID    *int64               `json:"resource_id" validate:"omitempty,gt=0"`
	CustomerName  string               `json:"customer_name" validate:"required,max=255"`
	CustomerEmail string               `json:"customer_email" validate:"required,email,max=255"`
	CustomerPhone *string              `json:"customer_phone" validate:"omitempty,max=50"`
	StartTime     string               `json:"start_time" validate:"required,hhmm"`
	EndTime       string               `json:"end_time" validate:"required,hhmm"`
	PartySize     int                  `json:"party_size" validate:"gte=1,lte=1000"`
	Reason        *string              `json:"cancellation_reason" validate:"omitempty,max=500"`
	TotalPrice    float64              `json:"total_price" validate:"gte=0"`
	DepositPaid   float64              `json:"deposit_paid" validate:"gte=0"`
	AmountPaid    float64              `json:"amount_paid" validate:"gte=0"`
	PaymentStatus domain.PaymentStatus `json:"payment_status" validate:"oneof=not_required unpaid pending deposit_paid paid refunded partial_refund"`
}

// mergeUpdate накладывает разрешённые поля на b (кроме статуса) и возвращает ошибки разбора
func mergeUpdate(b *domain.Booking, req *models.UpdateBookingRequest) validation.Errors {
	errs := validation.Errors{}

	req.ServiceID.ApplyValue(&b.ServiceID)
	req.StaffID.Apply(&b.StaffID)
	req.ResourceID.Apply(&b.ResourceID)

	req.CustomerName.ApplyValue(&b.CustomerName)
	req.CustomerEmail.ApplyValue(&b.CustomerEmail)
	req.CustomerPhone.Apply(&b.CustomerPhone)
	req.CustomerNotes.Apply(&b.CustomerNotes)

	if req.BookingDate.Set {
		if req.BookingDate.Value == nil {
			errs.Add("booking_date", "field is required")
		} else if date, err := time.Parse(domain.DateFormat, *req.BookingDate.Value); err != nil {
			errs.Add("booking_date", "must be a date in "+domain.DateFormat+" format")
		} else {
			b.BookingDate = date
		}
	}
	req.StartTime.ApplyValue(&b.StartTime)
	req.EndTime.ApplyValue(&b.EndTime)
	req.PartySize.ApplyValue(&b.PartySize)

	req.CancellationReason.Apply(&b.CancellationReason)

	req.TotalPrice.ApplyValue(&b.TotalPrice)
	req.DepositPaid.ApplyValue(&b.DepositPaid)
	req.AmountPaid.ApplyValue(&b.AmountPaid)
	req.PaymentStatus.ApplyValue(&b.PaymentStatus)
	req.PaymentMethod.Apply(&b.PaymentMethod)
	req.PaymentReference.Apply(&b.PaymentReference)
	req.AdminNotes.Apply(&b.AdminNotes)

	return errs
}

// validateState проверяет бронирование после слияния
func validateState(b *domain.Booking, errs validation.Errors) error {
	state := bookingState{
		ServiceID:     b.ServiceID,
		StaffID:       b.StaffID,
		ResourceID:    b.ResourceID,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		CustomerPhone: b.CustomerPhone,
		StartTime:     b.StartTime.String(),
		EndTime:       b.EndTime.String(),
		PartySize:     b.PartySize,
		Reason:        b.CancellationReason,
		TotalPrice:    b.TotalPrice,
		DepositPaid:   b.DepositPaid,
		AmountPaid:    b.AmountPaid,
		PaymentStatus: b.PaymentStatus,
	}

	if err := validate.Struct(state); err != nil {
		fields, ok := validation.Fields(err)
		if !ok {
			return err
		}
		for field, msg := range fields {
			errs.Add(field, msg)
		}
	}

	_, badStart := errs["start_time"]
	_, badEnd := errs["end_time"]
	if !badStart && !badEnd && !b.EndTime.IsAfter(b.StartTime) {
		errs.Add("end_time", "must be after start_time")
	}

	return errs.OrNil()
}

// windowChanged сообщает, сдвинулось ли окно или область бронирования
func windowChanged(prev, next *domain.Booking) bool {
	return prev.ServiceID != next.ServiceID ||
		!sameID(prev.StaffID, next.StaffID) ||
		!sameID(prev.ResourceID, next.ResourceID) ||
		!prev.BookingDate.Equal(next.BookingDate) ||
		prev.StartTime != next.StartTime ||
		prev.EndTime != next.EndTime
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
