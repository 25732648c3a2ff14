package models

import (
	"time"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/domain"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/ptr"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/types"
)

// Request модели

// HoursRow одна строка недельного расписания
type HoursRow struct {
	DayOfWeek  int     `json:"day_of_week" validate:"gte=0,lte=6"`
	IsOpen     bool    `json:"is_open"`
	OpenTime   *string `json:"open_time" validate:"omitempty,hhmm"`
	CloseTime  *string `json:"close_time" validate:"omitempty,hhmm"`
	BreakStart *string `json:"break_start" validate:"omitempty,hhmm"`
	BreakEnd   *string `json:"break_end" validate:"omitempty,hhmm"`
}

// UpdateHoursRequest запрос на замену строк расписания области
type UpdateHoursRequest struct {
	StaffID *int64     `json:"staff_id" validate:"omitempty,gt=0"`
	Hours   []HoursRow `json:"hours" validate:"required,min=1,max=7"`
}

// ToDomainHours конвертирует строку запроса в domain модель
func (r HoursRow) ToDomainHours(staffID *int64) *domain.BusinessHours {
	return &domain.BusinessHours{
		StaffID:    staffID,
		DayOfWeek:  r.DayOfWeek,
		IsOpen:     r.IsOpen,
		OpenTime:   timeOrZero(r.OpenTime),
		CloseTime:  timeOrZero(r.CloseTime),
		BreakStart: timeOrZero(r.BreakStart),
		BreakEnd:   timeOrZero(r.BreakEnd),
	}
}

// ListOverridesRequest фильтры исключений
type ListOverridesRequest struct {
	StaffID   *int64
	StartDate *time.Time
	EndDate   *time.Time
}

// CreateOverrideRequest запрос на создание исключения по дате
type CreateOverrideRequest struct {
	StaffID   *int64  `json:"staff_id" validate:"omitempty,gt=0"`
	Date      string  `json:"date" validate:"required,datetime=2006-01-02"`
	Type      string  `json:"availability_type" validate:"required,oneof=available unavailable"`
	StartTime *string `json:"start_time" validate:"omitempty,hhmm"`
	EndTime   *string `json:"end_time" validate:"omitempty,hhmm"`
	Reason    *string `json:"reason" validate:"omitempty,max=255"`
}

// Response модели

// HoursResponse строка расписания
type HoursResponse struct {
	ID         int64   `json:"id"`
	StaffID    *int64  `json:"staff_id"`
	DayOfWeek  int     `json:"day_of_week"`
	IsOpen     bool    `json:"is_open"`
	OpenTime   *string `json:"open_time"`
	CloseTime  *string `json:"close_time"`
	BreakStart *string `json:"break_start"`
	BreakEnd   *string `json:"break_end"`
}

// OverrideResponse исключение по дате
type OverrideResponse struct {
	ID        int64     `json:"id"`
	StaffID   *int64    `json:"staff_id"`
	Date      string    `json:"date"`
	Type      string    `json:"type"`
	StartTime *string   `json:"start_time"`
	EndTime   *string   `json:"end_time"`
	Reason    *string   `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// Методы конвертации

// FromDomainHoursList конвертирует строки расписания в DTO
func FromDomainHoursList(hours []*domain.BusinessHours) []HoursResponse {
	out := make([]HoursResponse, 0, len(hours))
	for _, h := range hours {
		out = append(out, HoursResponse{
			ID:         h.ID,
			StaffID:    h.StaffID,
			DayOfWeek:  h.DayOfWeek,
			IsOpen:     h.IsOpen,
			OpenTime:   stringOrNil(h.OpenTime),
			CloseTime:  stringOrNil(h.CloseTime),
			BreakStart: stringOrNil(h.BreakStart),
			BreakEnd:   stringOrNil(h.BreakEnd),
		})
	}
	return out
}

// FromDomainOverride конвертирует исключение в DTO
func FromDomainOverride(o *domain.AvailabilityOverride) *OverrideResponse {
	if o == nil {
		return nil
	}
	return &OverrideResponse{
		ID:        o.ID,
		StaffID:   o.StaffID,
		Date:      o.Date.Format(domain.DateFormat),
		Type:      string(o.Type),
		StartTime: stringOrNil(o.StartTime),
		EndTime:   stringOrNil(o.EndTime),
		Reason:    o.Reason,
		CreatedAt: o.CreatedAt,
	}
}

// FromDomainOverrideList конвертирует список исключений в DTO
func FromDomainOverrideList(overrides []*domain.AvailabilityOverride) []OverrideResponse {
	out := make([]OverrideResponse, 0, len(overrides))
	for _, o := range overrides {
		out = append(out, *FromDomainOverride(o))
	}
	return out
}

func timeOrZero(s *string) types.TimeString {
	return types.TimeString(ptr.Value(s))
}

func stringOrNil(t types.TimeString) *string {
	if t.IsZero() {
		return nil
	}
	s := t.String()
	return &s
}
