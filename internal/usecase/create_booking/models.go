package create_booking

import (
	"time"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/domain"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/types"
)

// Request модель запроса на создание бронирования.
// json-теги задают имена полей в ошибках валидации.
type Request struct {
	ServiceID  int64  `json:"service_id" validate:"required,gt=0"`
	StaffID    *int64 `json:"staff_id" validate:"omitempty,gt=0"`
	ResourceID *int64 `json:"resource_id" validate:"omitempty,gt=0"`

	CustomerName  string  `json:"customer_name" validate:"required,max=255"`
	CustomerEmail string  `json:"customer_email" validate:"required,email,max=255"`
	CustomerPhone *string `json:"customer_phone" validate:"omitempty,max=50"`
	CustomerNotes *string `json:"customer_notes" validate:"omitempty,max=2000"`

	BookingDate time.Time        `json:"booking_date" validate:"required"`
	StartTime   types.TimeString `json:"start_time" validate:"required,hhmm"`
	EndTime     types.TimeString `json:"end_time" validate:"required,hhmm"`
	PartySize   *int             `json:"party_size" validate:"omitempty,gte=1,lte=1000"`

	Status     *domain.BookingStatus `json:"status" validate:"omitempty,oneof=pending confirmed completed cancelled no_show"`
	TotalPrice *float64              `json:"total_price" validate:"omitempty,gte=0"`
	AdminNotes *string               `json:"admin_notes" validate:"omitempty,max=2000"`
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking *domain.Booking
}
