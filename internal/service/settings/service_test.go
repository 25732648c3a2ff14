package settings

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/domain"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/tenant/tenanttest"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/logger"
)

func TestGet_MergesDefaults(t *testing.T) {
	mem := tenanttest.New()
	mem.Settings[domain.SettingSlotIntervalMinutes] = "30"
	mem.Settings["welcome_text"] = "Hello"

	settings, err := NewService(logger.Nop()).Get(context.Background(), mem.Store())
	require.NoError(t, err)

	assert.Equal(t, 30, settings.SlotIntervalMinutes())
	assert.Equal(t, "Hello", settings["welcome_text"])
	assert.Equal(t, "USD", settings[domain.SettingCurrency])
	assert.Equal(t, domain.DefaultMaxAdvanceBookingDays, settings.MaxAdvanceBookingDays())
}

func TestUpdate_EncodesValues(t *testing.T) {
	mem := tenanttest.New()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(`{
		"type": "template",
		"reference_id": 7,
		"currency": "EUR",
		"slot_interval_minutes": 20,
		"require_payment": true,
		"closed_days": [0, 6]
	}`), &body))

	settings, err := NewService(logger.Nop()).Update(context.Background(), mem.Store(), body)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"currency":              "EUR",
		"slot_interval_minutes": "20",
		"require_payment":       "true",
		"closed_days":           "[0,6]",
	}, mem.Settings)

	assert.Equal(t, "EUR", settings[domain.SettingCurrency])
	assert.Equal(t, 20, settings.SlotIntervalMinutes())
	assert.True(t, settings.Bool(domain.SettingRequirePayment, false))
	assert.Equal(t, []interface{}{0.0, 6.0}, settings["closed_days"])
	assert.Equal(t, 1, mem.TxCalls)
}

func TestUpdate_RejectsLongKey(t *testing.T) {
	mem := tenanttest.New()

	_, err := NewService(logger.Nop()).Update(context.Background(), mem.Store(), map[string]interface{}{
		strings.Repeat("k", 300): "v",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, mem.Settings)
}
