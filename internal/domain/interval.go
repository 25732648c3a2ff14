package domain

import "github.com/ajtaylor-dev/Pagevoo-sub002/pkg/types"

// Interval is a half-open [Start, End) range in minutes since midnight.
type Interval struct {
	Start int
	End   int
}

// NewInterval converts a pair of wall-clock times.
func NewInterval(start, end types.TimeString) Interval {
	return Interval{Start: start.Minutes(), End: end.Minutes()}
}

// Overlaps uses the half-open test a.start < b.end && a.end > b.start.
// Touching intervals do not overlap.
func (a Interval) Overlaps(b Interval) bool {
	return a.Start < b.End && a.End > b.Start
}

// Buffered widens the interval; negative buffers count as zero.
func (a Interval) Buffered(before, after int) Interval {
	return Interval{Start: a.Start - max(before, 0), End: a.End + max(after, 0)}
}

// FindConflict returns the first active booking whose buffered window overlaps candidate.
// A booking with excludeID (the one being edited) is skipped.
func FindConflict(candidate Interval, bookings []*Booking, bufferBefore, bufferAfter int, excludeID int64) *Booking {
	for _, b := range bookings {
		if !b.IsActive() || (excludeID != 0 && b.ID == excludeID) {
			continue
		}
		if candidate.Overlaps(b.Window().Buffered(bufferBefore, bufferAfter)) {
			return b
		}
	}
	return nil
}
