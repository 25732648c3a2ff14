package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterval_Overlaps(t *testing.T) {
	a := Interval{Start: 600, End: 660}

	assert.True(t, a.Overlaps(Interval{Start: 630, End: 700}))
	assert.True(t, a.Overlaps(Interval{Start: 500, End: 1000}))
	assert.False(t, a.Overlaps(Interval{Start: 660, End: 720}), "touching at end")
	assert.False(t, a.Overlaps(Interval{Start: 540, End: 600}), "touching at start")
}

func TestInterval_BufferedIgnoresNegative(t *testing.T) {
	a := Interval{Start: 600, End: 660}

	assert.Equal(t, Interval{Start: 585, End: 675}, a.Buffered(15, 15))
	assert.Equal(t, a, a.Buffered(-10, -5))
}

func TestFindConflict(t *testing.T) {
	bookings := []*Booking{
		{ID: 1, StartTime: "10:00", EndTime: "11:00", Status: StatusCancelled},
		{ID: 2, StartTime: "13:00", EndTime: "14:00", Status: StatusConfirmed},
	}

	candidate := NewInterval("10:30", "11:30")
	assert.Nil(t, FindConflict(candidate, bookings, 0, 0, 0), "cancelled bookings never conflict")

	candidate = NewInterval("14:00", "14:30")
	assert.Nil(t, FindConflict(candidate, bookings, 0, 0, 0))
	assert.Equal(t, int64(2), FindConflict(candidate, bookings, 0, 15, 0).ID)
	assert.Nil(t, FindConflict(candidate, bookings, 0, 15, 2), "the edited booking is skipped")
}
