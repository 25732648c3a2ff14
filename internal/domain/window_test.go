package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/types"
)

func TestAdvanceWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	w := Settings{
		SettingMinAdvanceBookingHours: 2,
		SettingMaxAdvanceBookingDays:  30,
	}.AdvanceWindow(now)

	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		date  time.Time
		start types.TimeString
		want  bool
	}{
		{"too soon today", today, "11:00", false},
		{"exactly at min notice", today, "11:30", true},
		{"later today", today, "15:00", true},
		{"yesterday", today.AddDate(0, 0, -1), "15:00", false},
		{"last allowed date", today.AddDate(0, 0, 30), "08:00", true},
		{"beyond max days", today.AddDate(0, 0, 31), "08:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.AllowsStart(tt.date, tt.start))
		})
	}
}

func TestAdvanceWindow_MinNoticeCrossesMidnight(t *testing.T) {
	now := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)
	w := DefaultSettings().AdvanceWindow(now)

	assert.False(t, w.AllowsDate(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)))
	assert.False(t, w.AllowsStart(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), "00:30"))
	assert.True(t, w.AllowsStart(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), "01:00"))
}
