package domain

// Defaults
const (
	DefaultServiceDurationMinutes = 60
	DefaultPartySize              = 1
	DefaultReferencePrefix        = "BK"
	DefaultCalendarColor          = "#3B82F6"
)

// Business validation constants
const (
	MaxCustomerNameLength       = 255
	MaxNotesLength              = 2000
	MaxCancellationReasonLength = 500
	MaxPartySize                = 1000
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ClosedStatuses are excluded by the "upcoming" filter
var ClosedStatuses = []BookingStatus{
	StatusCancelled,
	StatusCompleted,
}
