package models

import (
	"time"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/domain"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/types"
)

// Request модели

// ListBookingsRequest фильтры списка бронирований
type ListBookingsRequest struct {
	Status     *domain.BookingStatus
	ServiceID  *int64
	StaffID    *int64
	ResourceID *int64
	Date       *time.Time
	StartDate  *time.Time
	EndDate    *time.Time
	Upcoming   bool
	Search     string
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter(today time.Time) domain.BookingFilter {
	return domain.BookingFilter{
		Status:     r.Status,
		ServiceID:  r.ServiceID,
		StaffID:    r.StaffID,
		ResourceID: r.ResourceID,
		Date:       r.Date,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
		Upcoming:   r.Upcoming,
		Today:      today,
		Search:     r.Search,
	}
}

// UpdateBookingRequest частичное обновление: отсутствующие поля не меняются,
// null очищает nullable поле
type UpdateBookingRequest struct {
	ServiceID  types.Optional[int64] `json:"service_id"`
	StaffID    types.Optional[int64] `json:"staff_id"`
	ResourceID types.Optional[int64] `json:"resource_id"`

	CustomerName  types.Optional[string] `json:"customer_name"`
	CustomerEmail types.Optional[string] `json:"customer_email"`
	CustomerPhone types.Optional[string] `json:"customer_phone"`
	CustomerNotes types.Optional[string] `json:"customer_notes"`

	BookingDate types.Optional[string]           `json:"booking_date"`
	StartTime   types.Optional[types.TimeString] `json:"start_time"`
	EndTime     types.Optional[types.TimeString] `json:"end_time"`
	PartySize   types.Optional[int]              `json:"party_size"`

	Status             types.Optional[domain.BookingStatus] `json:"status"`
	CancellationReason types.Optional[string]               `json:"cancellation_reason"`

	TotalPrice       types.Optional[float64]              `json:"total_price"`
	DepositPaid      types.Optional[float64]              `json:"deposit_paid"`
	AmountPaid       types.Optional[float64]              `json:"amount_paid"`
	PaymentStatus    types.Optional[domain.PaymentStatus] `json:"payment_status"`
	PaymentMethod    types.Optional[string]               `json:"payment_method"`
	PaymentReference types.Optional[string]               `json:"payment_reference"`
	AdminNotes       types.Optional[string]               `json:"admin_notes"`
}

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	Reason *string
}

// CalendarRequest период календаря (по умолчанию текущий месяц)
type CalendarRequest struct {
	StartDate *time.Time
	EndDate   *time.Time
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID         int64  `json:"id"`
	Reference  string `json:"booking_reference"`
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
	PartySize   int    `json:"party_size"`

	Status             string  `json:"status"`
	CancellationReason *string `json:"cancellation_reason"`

	TotalPrice       float64 `json:"total_price"`
	DepositPaid      float64 `json:"deposit_paid"`
	AmountPaid       float64 `json:"amount_paid"`
	PaymentStatus    string  `json:"payment_status"`
	PaymentMethod    *string `json:"payment_method"`
	PaymentReference *string `json:"payment_reference"`
	AdminNotes       *string `json:"admin_notes"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Денормализованные данные
	ServiceName     *string  `json:"service_name,omitempty"`
	ServiceDuration *int     `json:"service_duration,omitempty"`
	ServicePrice    *float64 `json:"service_price,omitempty"`
	ServiceColor    *string  `json:"service_color,omitempty"`
	StaffName       *string  `json:"staff_name,omitempty"`
	StaffColor      *string  `json:"staff_color,omitempty"`
	ResourceName    *string  `json:"resource_name,omitempty"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// DashboardResponse счётчики для панели (без отменённых)
type DashboardResponse struct {
	Today     int `json:"today"`
	Pending   int `json:"pending"`
	Upcoming  int `json:"upcoming"`
	ThisWeek  int `json:"this_week"`
	ThisMonth int `json:"this_month"`
}

// CalendarEventResponse событие календаря
type CalendarEventResponse struct {
	ID      int64            `json:"id"`
	Title   string           `json:"title"`
	Start   string           `json:"start"`
	End     string           `json:"end"`
	Color   string           `json:"color"`
	Status  string           `json:"status"`
	Booking *BookingResponse `json:"booking"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:                 b.ID,
		Reference:          b.Reference,
		ServiceID:          b.ServiceID,
		StaffID:            b.StaffID,
		ResourceID:         b.ResourceID,
		CustomerName:       b.CustomerName,
		CustomerEmail:      b.CustomerEmail,
		CustomerPhone:      b.CustomerPhone,
		CustomerNotes:      b.CustomerNotes,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		EndTime:            b.EndTime.String(),
		PartySize:          b.PartySize,
		Status:             string(b.Status),
		CancellationReason: b.CancellationReason,
		TotalPrice:         b.TotalPrice,
		DepositPaid:        b.DepositPaid,
		AmountPaid:         b.AmountPaid,
		PaymentStatus:      string(b.PaymentStatus),
		PaymentMethod:      b.PaymentMethod,
		PaymentReference:   b.PaymentReference,
		AdminNotes:         b.AdminNotes,
		ConfirmedAt:        b.ConfirmedAt,
		CancelledAt:        b.CancelledAt,
		CompletedAt:        b.CompletedAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
		ServiceName:        b.ServiceName,
		ServiceDuration:    b.ServiceDuration,
		ServicePrice:       b.ServicePrice,
		ServiceColor:       b.ServiceColor,
		StaffName:          b.StaffName,
		StaffColor:         b.StaffColor,
		ResourceName:       b.ResourceName,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}
	return resp
}

// FromDomainStats конвертирует счётчики панели
func FromDomainStats(s domain.DashboardStats) *DashboardResponse {
	return &DashboardResponse{
		Today:     s.Today,
		Pending:   s.Pending,
		Upcoming:  s.Upcoming,
		ThisWeek:  s.ThisWeek,
		ThisMonth: s.ThisMonth,
	}
}

// FromDomainEvents конвертирует события календаря
func FromDomainEvents(events []domain.CalendarEvent) []CalendarEventResponse {
	out := make([]CalendarEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, CalendarEventResponse{
			ID:      e.ID,
			Title:   e.Title,
			Start:   e.Start,
			End:     e.End,
			Color:   e.Color,
			Status:  string(e.Status),
			Booking: FromDomainBooking(e.Booking),
		})
	}
	return out
}
