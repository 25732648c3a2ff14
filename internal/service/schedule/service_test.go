package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/domain"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/service/schedule/models"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/tenant/tenanttest"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/logger"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/ptr"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/validation"
)

func openRow(day int, open, closing string) models.HoursRow {
	return models.HoursRow{DayOfWeek: day, IsOpen: true, OpenTime: ptr.Ptr(open), CloseTime: ptr.Ptr(closing)}
}

func TestUpdateHours_UpsertsScope(t *testing.T) {
	mem := tenanttest.New()
	for _, h := range domain.DefaultWeeklyHours() {
		mem.AddHours(h)
	}
	svc := NewService(logger.Nop())
	ctx := context.Background()

	monday := openRow(1, "10:00", "18:00")
	monday.BreakStart, monday.BreakEnd = ptr.Ptr("13:00"), ptr.Ptr("14:00")

	hours, err := svc.UpdateHours(ctx, mem.Store(), &models.UpdateHoursRequest{
		Hours: []models.HoursRow{monday, {DayOfWeek: 2, IsOpen: false}},
	})
	require.NoError(t, err)
	require.Len(t, hours, 7)
	assert.Equal(t, "10:00", *hours[1].OpenTime)
	assert.Equal(t, "13:00", *hours[1].BreakStart)
	assert.False(t, hours[2].IsOpen)
	assert.Nil(t, hours[2].OpenTime)
	assert.Equal(t, "09:00", *hours[3].OpenTime)
	assert.Equal(t, 1, mem.TxCalls)

	// строки сотрудника не смешиваются с общими
	staff, err := svc.UpdateHours(ctx, mem.Store(), &models.UpdateHoursRequest{
		StaffID: ptr.Ptr(int64(7)),
		Hours:   []models.HoursRow{openRow(1, "12:00", "16:00")},
	})
	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.Equal(t, int64(7), *staff[0].StaffID)

	global, err := svc.GetHours(ctx, mem.Store(), nil)
	require.NoError(t, err)
	assert.Len(t, global, 7)
	assert.Equal(t, "10:00", *global[1].OpenTime)
}

func TestUpdateHours_Validation(t *testing.T) {
	withBreak := func(row models.HoursRow, start, end *string) models.HoursRow {
		row.BreakStart, row.BreakEnd = start, end
		return row
	}

	tests := []struct {
		name  string
		rows  []models.HoursRow
		field string
	}{
		{"empty list", nil, "hours"},
		{"day out of range", []models.HoursRow{openRow(7, "09:00", "17:00")}, "hours.0.day_of_week"},
		{"bad time", []models.HoursRow{openRow(1, "9am", "17:00")}, "hours.0.open_time"},
		{"open without times", []models.HoursRow{{DayOfWeek: 1, IsOpen: true}}, "hours.0.open_time"},
		{"close before open", []models.HoursRow{openRow(1, "17:00", "09:00")}, "hours.0.close_time"},
		{"half break", []models.HoursRow{withBreak(openRow(1, "09:00", "17:00"), ptr.Ptr("12:00"), nil)}, "hours.0.break_start"},
		{"break reversed", []models.HoursRow{withBreak(openRow(1, "09:00", "17:00"), ptr.Ptr("13:00"), ptr.Ptr("12:00"))}, "hours.0.break_end"},
		{"break outside", []models.HoursRow{withBreak(openRow(1, "09:00", "17:00"), ptr.Ptr("16:30"), ptr.Ptr("17:30"))}, "hours.0.break_start"},
		{"duplicate day", []models.HoursRow{openRow(1, "09:00", "17:00"), openRow(1, "10:00", "12:00")}, "hours.1.day_of_week"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := tenanttest.New()
			_, err := NewService(logger.Nop()).UpdateHours(context.Background(), mem.Store(), &models.UpdateHoursRequest{Hours: tt.rows})
			require.ErrorIs(t, err, ErrInvalidInput)

			fields, ok := validation.Fields(err)
			require.True(t, ok)
			assert.Contains(t, fields, tt.field)
			assert.Empty(t, mem.Hours)
		})
	}
}

func TestOverrides(t *testing.T) {
	mem := tenanttest.New()
	svc := NewService(logger.Nop())
	ctx := context.Background()

	dayOff, err := svc.CreateOverride(ctx, mem.Store(), &models.CreateOverrideRequest{
		Date:   "2026-03-12",
		Type:   "unavailable",
		Reason: ptr.Ptr("holiday"),
	})
	require.NoError(t, err)
	assert.Nil(t, dayOff.StartTime)

	_, err = svc.CreateOverride(ctx, mem.Store(), &models.CreateOverrideRequest{
		StaffID:   ptr.Ptr(int64(3)),
		Date:      "2026-03-10",
		Type:      "available",
		StartTime: ptr.Ptr("18:00"),
		EndTime:   ptr.Ptr("20:00"),
	})
	require.NoError(t, err)

	blocked, err := mem.Store().Overrides.HasFullDayBlock(ctx, time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)
	assert.True(t, blocked)

	all, err := svc.ListOverrides(ctx, mem.Store(), &models.ListOverridesRequest{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "2026-03-10", all[0].Date)

	staffOnly, err := svc.ListOverrides(ctx, mem.Store(), &models.ListOverridesRequest{StaffID: ptr.Ptr(int64(3))})
	require.NoError(t, err)
	assert.Len(t, staffOnly, 1)

	from := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	ranged, err := svc.ListOverrides(ctx, mem.Store(), &models.ListOverridesRequest{StartDate: &from, EndDate: &to})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, dayOff.ID, ranged[0].ID)

	_, err = svc.ListOverrides(ctx, mem.Store(), &models.ListOverridesRequest{StartDate: &to, EndDate: &from})
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, svc.DeleteOverride(ctx, mem.Store(), dayOff.ID))
	assert.ErrorIs(t, svc.DeleteOverride(ctx, mem.Store(), dayOff.ID), ErrOverrideNotFound)
}

func TestCreateOverride_Validation(t *testing.T) {
	tests := []struct {
		name  string
		req   models.CreateOverrideRequest
		field string
	}{
		{"missing date", models.CreateOverrideRequest{Type: "unavailable"}, "date"},
		{"bad date", models.CreateOverrideRequest{Date: "12.03.2026", Type: "unavailable"}, "date"},
		{"bad kind", models.CreateOverrideRequest{Date: "2026-03-12", Type: "closed"}, "availability_type"},
		{"only start", models.CreateOverrideRequest{Date: "2026-03-12", Type: "unavailable", StartTime: ptr.Ptr("10:00")}, "start_time"},
		{"reversed", models.CreateOverrideRequest{Date: "2026-03-12", Type: "unavailable", StartTime: ptr.Ptr("12:00"), EndTime: ptr.Ptr("10:00")}, "end_time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := tenanttest.New()
			_, err := NewService(logger.Nop()).CreateOverride(context.Background(), mem.Store(), &tt.req)
			require.ErrorIs(t, err, ErrInvalidInput)

			fields, ok := validation.Fields(err)
			require.True(t, ok)
			assert.Contains(t, fields, tt.field)
			assert.Empty(t, mem.Overrides)
		})
	}
}
