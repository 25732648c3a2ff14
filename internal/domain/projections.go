package domain

// DashboardStats are booking counts with cancelled bookings excluded
type DashboardStats struct {
	Today     int
	Pending   int
	Upcoming  int
	ThisWeek  int
	ThisMonth int
}

// CalendarEvent is a booking rendered for a calendar feed
type CalendarEvent struct {
	ID     int64
	Title  string
	Start  string
	End    string
	Color  string
	Status BookingStatus

	Booking *Booking
}

// NewCalendarEvent builds the feed entry for b.
// Color prefers the staff color, then the service category color.
func NewCalendarEvent(b *Booking) CalendarEvent {
	service := "Service"
	if b.ServiceName != nil && *b.ServiceName != "" {
		service = *b.ServiceName
	}
	title := b.CustomerName + " - " + service

	color := DefaultCalendarColor
	switch {
	case b.StaffColor != nil && *b.StaffColor != "":
		color = *b.StaffColor
	case b.ServiceColor != nil && *b.ServiceColor != "":
		color = *b.ServiceColor
	}

	date := b.BookingDate.Format(DateFormat)
	return CalendarEvent{
		ID:      b.ID,
		Title:   title,
		Start:   date + "T" + b.StartTime.String(),
		End:     date + "T" + b.EndTime.String(),
		Color:   color,
		Status:  b.Status,
		Booking: b,
	}
}
