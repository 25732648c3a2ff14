package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeSettings(t *testing.T) {
	merged := MergeSettings(map[string]string{
		SettingSlotIntervalMinutes: "30",
		SettingCurrency:            "EUR",
		SettingRequirePayment:      "true",
		"blocked_dates":            `["2025-12-25"]`,
	})

	assert.Equal(t, 30.0, merged[SettingSlotIntervalMinutes])
	assert.Equal(t, "EUR", merged[SettingCurrency])
	assert.Equal(t, true, merged[SettingRequirePayment])
	assert.Equal(t, []interface{}{"2025-12-25"}, merged["blocked_dates"])
	assert.Equal(t, "America/New_York", merged[SettingTimezone])
	assert.Equal(t, 30, merged.SlotIntervalMinutes())
}

func TestSettings_TypedAccessors(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, 15, s.SlotIntervalMinutes())
	assert.Equal(t, 2, s.MinAdvanceBookingHours())
	assert.Equal(t, 60, s.MaxAdvanceBookingDays())
	assert.True(t, s.Bool(SettingSendReminderEmail, false))

	s[SettingSlotIntervalMinutes] = 0.0
	assert.Equal(t, DefaultSlotIntervalMinutes, s.SlotIntervalMinutes())

	s[SettingSlotIntervalMinutes] = "abc"
	assert.Equal(t, DefaultSlotIntervalMinutes, s.SlotIntervalMinutes())

	s[SettingSlotIntervalMinutes] = " 20 "
	assert.Equal(t, 20, s.SlotIntervalMinutes())
}

func TestEncodeSettingValue(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{"USD", "USD"},
		{true, "true"},
		{30.0, "30"},
		{1.5, "1.5"},
		{[]interface{}{"a", "b"}, `["a","b"]`},
		{map[string]interface{}{"k": 1.0}, `{"k":1}`},
		{nil, "null"},
	}

	for _, tt := range tests {
		got, err := EncodeSettingValue(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
