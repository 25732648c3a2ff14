package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Setting keys with documented defaults
const (
	SettingCurrency               = "currency"
	SettingTimezone               = "timezone"
	SettingSlotIntervalMinutes    = "slot_interval_minutes"
	SettingMinAdvanceBookingHours = "min_advance_booking_hours"
	SettingMaxAdvanceBookingDays  = "max_advance_booking_days"
	SettingRequirePayment         = "require_payment"
	SettingSendConfirmationEmail  = "send_confirmation_email"
	SettingSendReminderEmail      = "send_reminder_email"
	SettingReminderHoursBefore    = "reminder_hours_before"
)

const (
	DefaultSlotIntervalMinutes    = 15
	DefaultMinAdvanceBookingHours = 2
	DefaultMaxAdvanceBookingDays  = 60
	DefaultReminderHoursBefore    = 24
)

// Settings is a tenant's merged key/value configuration.
// Values are whatever JSON decoding produced (float64, bool, string, []interface{}, map).
type Settings map[string]interface{}

// DefaultSettings returns a fresh copy of the defaults.
func DefaultSettings() Settings {
	return Settings{
		SettingCurrency:               "USD",
		SettingTimezone:               "America/New_York",
		SettingSlotIntervalMinutes:    DefaultSlotIntervalMinutes,
		SettingMinAdvanceBookingHours: DefaultMinAdvanceBookingHours,
		SettingMaxAdvanceBookingDays:  DefaultMaxAdvanceBookingDays,
		SettingRequirePayment:         false,
		SettingSendConfirmationEmail:  true,
		SettingSendReminderEmail:      true,
		SettingReminderHoursBefore:    DefaultReminderHoursBefore,
	}
}

// MergeSettings lays stored raw values over the defaults.
// A stored value that parses as JSON is decoded, anything else stays a string.
func MergeSettings(stored map[string]string) Settings {
	merged := DefaultSettings()
	for key, raw := range stored {
		merged[key] = DecodeSettingValue(raw)
	}
	return merged
}

// DecodeSettingValue decodes raw as JSON, falling back to the raw string.
func DecodeSettingValue(raw string) interface{} {
	var decoded interface{}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return raw
	}
	return decoded
}

// EncodeSettingValue turns a submitted value into its stored text form.
// Strings are stored verbatim, structured values as JSON.
func EncodeSettingValue(v interface{}) (string, error) {
	switch val := v.(type) {
	case nil:
		return "null", nil
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(val), nil
	case json.Number:
		return val.String(), nil
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return "", fmt.Errorf("encode setting value: %w", err)
		}
		return string(data), nil
	}
}

// Int reads key as an integer, returning def when missing or unparsable.
func (s Settings) Int(key string, def int) int {
	switch v := s[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

// Bool reads key as a boolean, returning def when missing or unparsable.
func (s Settings) Bool(key string, def bool) bool {
	switch v := s[key].(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return def
}

// SlotIntervalMinutes is the step between candidate slot starts.
// Non-positive values fall back to the default.
func (s Settings) SlotIntervalMinutes() int {
	interval := s.Int(SettingSlotIntervalMinutes, DefaultSlotIntervalMinutes)
	if interval <= 0 {
		return DefaultSlotIntervalMinutes
	}
	return interval
}

func (s Settings) MinAdvanceBookingHours() int {
	return max(s.Int(SettingMinAdvanceBookingHours, DefaultMinAdvanceBookingHours), 0)
}

func (s Settings) MaxAdvanceBookingDays() int {
	return max(s.Int(SettingMaxAdvanceBookingDays, DefaultMaxAdvanceBookingDays), 0)
}
