package domain

import (
	"time"

	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/types"
)

// BusinessHours is one row of the weekly template for a scope.
// StaffID nil means the business-wide (unscoped) row.
type BusinessHours struct {
	ID         int64
	StaffID    *int64
	DayOfWeek  int // 0 = Sunday
	IsOpen     bool
	OpenTime   types.TimeString
	CloseTime  types.TimeString
	BreakStart types.TimeString
	BreakEnd   types.TimeString
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasBreak reports whether both break bounds are set.
func (h *BusinessHours) HasBreak() bool {
	return !h.BreakStart.IsZero() && !h.BreakEnd.IsZero()
}

// Break returns the break window; callers check HasBreak first.
func (h *BusinessHours) Break() Interval {
	return NewInterval(h.BreakStart, h.BreakEnd)
}

// OverrideType is the kind of a date-specific exception
type OverrideType string

const (
	OverrideAvailable   OverrideType = "available"
	OverrideUnavailable OverrideType = "unavailable"
)

func (t OverrideType) IsValid() bool {
	return t == OverrideAvailable || t == OverrideUnavailable
}

// AvailabilityOverride is a date-specific exception to the weekly hours
type AvailabilityOverride struct {
	ID        int64
	StaffID   *int64
	Date      time.Time
	Type      OverrideType
	StartTime types.TimeString
	EndTime   types.TimeString
	Reason    *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsFullDay reports whether the override covers the whole date.
func (o *AvailabilityOverride) IsFullDay() bool {
	return o.StartTime.IsZero() && o.EndTime.IsZero()
}

// OverrideFilter describes an override query
type OverrideFilter struct {
	StaffID   *int64
	StartDate *time.Time
	EndDate   *time.Time
}

// DefaultWeeklyHours is the template seeded for new tenants: Mon-Fri 09:00-17:00, weekends closed.
func DefaultWeeklyHours() []*BusinessHours {
	hours := make([]*BusinessHours, 0, 7)
	for day := 0; day < 7; day++ {
		h := &BusinessHours{DayOfWeek: day}
		if day >= int(time.Monday) && day <= int(time.Friday) {
			h.IsOpen = true
			h.OpenTime = "09:00"
			h.CloseTime = "17:00"
		}
		hours = append(hours, h)
	}
	return hours
}
