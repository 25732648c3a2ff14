package create_booking

import (
	"time"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/domain"
	createBooking "github.com/ajtaylor-dev/Pagevoo-sub002/internal/usecase/create_booking"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/types"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/validation"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceID  int64  `json:"service_id"`
	StaffID    *int64 `json:"staff_id"`
	ResourceID *int64 `json:"resource_id"`

	CustomerName  string  `json:"customer_name"`
	CustomerEmail string  `json:"customer_email"`
	CustomerPhone *string `json:"customer_phone"`
	CustomerNotes *string `json:"customer_notes"`

	BookingDate string `json:"booking_date"` // "2025-10-15"
	StartTime   string `json:"start_time"`   // "10:00"
	EndTime     string `json:"end_time"`
	PartySize   *int   `json:"party_size"`

	Status     *domain.BookingStatus `json:"status"`
	TotalPrice *float64              `json:"total_price"`
	AdminNotes *string               `json:"admin_notes"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Неразбираемая дата возвращается как ошибка поля booking_date.
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	var bookingDate time.Time
	if r.BookingDate != "" {
		parsed, err := time.Parse(domain.DateFormat, r.BookingDate)
		if err != nil {
			return nil, validation.Errors{"booking_date": "must be a date in " + domain.DateFormat + " format"}
		}
		bookingDate = parsed
	}

	return &createBooking.Request{
		ServiceID:     r.ServiceID,
		StaffID:       r.StaffID,
		ResourceID:    r.ResourceID,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		CustomerNotes: r.CustomerNotes,
		BookingDate:   bookingDate,
		StartTime:     types.TimeString(r.StartTime),
		EndTime:       types.TimeString(r.EndTime),
		PartySize:     r.PartySize,
		Status:        r.Status,
		TotalPrice:    r.TotalPrice,
		AdminNotes:    r.AdminNotes,
	}, nil
}
