package domain

import (
	"time"

	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/types"
)

// AdvanceWindow bounds how early and how far ahead a booking may start.
// Times are tenant-local wall clock; dates are compared by calendar day.
type AdvanceWindow struct {
	Earliest time.Time // first bookable instant
	LastDate time.Time // last bookable calendar date
}

// AdvanceWindow derives the window from the min/max advance settings.
func (s Settings) AdvanceWindow(now time.Time) AdvanceWindow {
	today := DateOnly(now)
	return AdvanceWindow{
		Earliest: now.Add(time.Duration(s.MinAdvanceBookingHours()) * time.Hour),
		LastDate: today.AddDate(0, 0, s.MaxAdvanceBookingDays()),
	}
}

// AllowsDate reports whether any part of date can fall inside the window.
func (w AdvanceWindow) AllowsDate(date time.Time) bool {
	d := DateOnly(date)
	return !d.After(w.LastDate) && !d.Before(DateOnly(w.Earliest))
}

// AllowsStart reports whether a booking starting at start on date is inside the window.
func (w AdvanceWindow) AllowsStart(date time.Time, start types.TimeString) bool {
	if !w.AllowsDate(date) {
		return false
	}
	m := start.Minutes()
	instant := time.Date(date.Year(), date.Month(), date.Day(), m/60, m%60, 0, 0, w.Earliest.Location())
	return !instant.Before(w.Earliest)
}

// DateOnly truncates t to midnight in its own location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
