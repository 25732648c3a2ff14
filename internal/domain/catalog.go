package domain

// Service is the catalog record driving slot math. It is read-only here.
type Service struct {
	ID                  int64
	CategoryID          *int64
	Name                string
	DurationMinutes     int
	BufferBeforeMinutes int
	BufferAfterMinutes  int
	Capacity            int
	Price               float64
	IsActive            bool
}

// Duration falls back to DefaultServiceDurationMinutes for unset durations.
func (s *Service) Duration() int {
	if s.DurationMinutes <= 0 {
		return DefaultServiceDurationMinutes
	}
	return s.DurationMinutes
}
