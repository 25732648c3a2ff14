package bookings

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/domain"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/service/bookings/models"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/tenant/tenanttest"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/logger"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/ptr"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/types"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/validation"
)

type fixedTime struct{ now time.Time }

func (f *fixedTime) Now() time.Time { return f.now }

type fakeMetrics struct {
	transitions []string
	conflicts   int
}

func (m *fakeMetrics) IncBookingTransition(from, to string) {
	m.transitions = append(m.transitions, from+"->"+to)
}
func (m *fakeMetrics) IncBookingConflict() { m.conflicts++ }

// 2026-03-11 - среда
var (
	t0   = time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	date = time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	svc     *Service
	mem     *tenanttest.Memory
	clock   *fixedTime
	metrics *fakeMetrics
}

func newFixture(guard bool) *fixture {
	f := &fixture{
		mem:     tenanttest.New(),
		clock:   &fixedTime{now: t0},
		metrics: &fakeMetrics{},
	}
	f.mem.Services[1] = &domain.Service{ID: 1, DurationMinutes: 60, BufferAfterMinutes: 15, IsActive: true}
	f.svc = NewService(Options{PreventDoubleBooking: guard}, f.metrics, logger.Nop()).WithTimeProvider(f.clock)
	return f
}

func (f *fixture) add(status domain.BookingStatus, day time.Time, start, end string) int64 {
	return f.mem.AddBooking(&domain.Booking{
		Reference:     "BK-TEST",
		ServiceID:     1,
		CustomerName:  "Ann Lee",
		CustomerEmail: "ann@example.com",
		BookingDate:   day,
		StartTime:     types.TimeString(start),
		EndTime:       types.TimeString(end),
		PartySize:     1,
		Status:        status,
		PaymentStatus: domain.PaymentUnpaid,
	})
}

func TestConfirm_StampsOnce(t *testing.T) {
	f := newFixture(true)
	id := f.add(domain.StatusPending, date, "10:00", "11:00")
	ctx := context.Background()

	resp, err := f.svc.Confirm(ctx, f.mem.Store(), id)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
	require.NotNil(t, resp.ConfirmedAt)
	assert.Equal(t, t0, *resp.ConfirmedAt)

	f.clock.now = t0.Add(time.Hour)
	resp, err = f.svc.Confirm(ctx, f.mem.Store(), id)
	require.NoError(t, err)
	assert.Equal(t, t0, *resp.ConfirmedAt)
	assert.Equal(t, []string{"pending->confirmed"}, f.metrics.transitions)
}

func TestCancel_KeepsFirstStampAndReason(t *testing.T) {
	f := newFixture(true)
	id := f.add(domain.StatusPending, date, "10:00", "11:00")
	ctx := context.Background()

	resp, err := f.svc.Cancel(ctx, f.mem.Store(), id, &models.CancelBookingRequest{Reason: ptr.Ptr("customer request")})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	assert.Equal(t, "customer request", *resp.CancellationReason)
	assert.Equal(t, t0, *resp.CancelledAt)

	f.clock.now = t0.Add(2 * time.Hour)
	resp, err = f.svc.Cancel(ctx, f.mem.Store(), id, &models.CancelBookingRequest{Reason: ptr.Ptr("changed mind")})
	require.NoError(t, err)
	assert.Equal(t, "customer request", *resp.CancellationReason)
	assert.Equal(t, t0, *resp.CancelledAt)
}

func TestTransitions_AreMonotonic(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()

	completed := f.add(domain.StatusCompleted, date, "10:00", "11:00")
	_, err := f.svc.Cancel(ctx, f.mem.Store(), completed, &models.CancelBookingRequest{})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	cancelled := f.add(domain.StatusCancelled, date, "12:00", "13:00")
	_, err = f.svc.Confirm(ctx, f.mem.Store(), cancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	confirmed := f.add(domain.StatusConfirmed, date, "14:00", "15:00")
	_, err = f.svc.Update(ctx, f.mem.Store(), confirmed, &models.UpdateBookingRequest{
		Status: types.Some(domain.StatusPending),
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, domain.StatusConfirmed, f.mem.Bookings[confirmed].Status)
}

func TestNotFound(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	store := f.mem.Store()

	_, err := f.svc.GetByID(ctx, store, 404)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	_, err = f.svc.Confirm(ctx, store, 404)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	_, err = f.svc.Cancel(ctx, store, 404, &models.CancelBookingRequest{})
	assert.ErrorIs(t, err, ErrBookingNotFound)
	_, err = f.svc.Update(ctx, store, 404, &models.UpdateBookingRequest{})
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, store, 404), ErrBookingNotFound)
}

func decodeUpdate(t *testing.T, body string) *models.UpdateBookingRequest {
	t.Helper()
	var req models.UpdateBookingRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return &req
}

func TestUpdate_MergesAllowedFields(t *testing.T) {
	f := newFixture(true)
	id := f.add(domain.StatusPending, date, "10:00", "11:00")
	f.mem.Bookings[id].CustomerPhone = ptr.Ptr("555-0100")

	resp, err := f.svc.Update(context.Background(), f.mem.Store(), id, decodeUpdate(t, `{
		"customer_name": "Ann Smith",
		"customer_phone": null,
		"party_size": 3,
		"payment_status": "deposit_paid",
		"deposit_paid": 20,
		"admin_notes": "vip"
	}`))
	require.NoError(t, err)

	assert.Equal(t, "Ann Smith", resp.CustomerName)
	assert.Nil(t, resp.CustomerPhone)
	assert.Equal(t, 3, resp.PartySize)
	assert.Equal(t, "deposit_paid", resp.PaymentStatus)
	assert.Equal(t, 20.0, resp.DepositPaid)
	assert.Equal(t, "vip", *resp.AdminNotes)
	assert.Equal(t, "ann@example.com", resp.CustomerEmail)
	assert.Equal(t, "pending", resp.Status)
}

func TestUpdate_StatusStampsTimestamps(t *testing.T) {
	f := newFixture(true)
	id := f.add(domain.StatusConfirmed, date, "10:00", "11:00")

	resp, err := f.svc.Update(context.Background(), f.mem.Store(), id, decodeUpdate(t, `{"status":"completed"}`))
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, t0, *resp.CompletedAt)

	other := f.add(domain.StatusPending, date, "12:00", "13:00")
	resp, err = f.svc.Update(context.Background(), f.mem.Store(), other,
		decodeUpdate(t, `{"status":"cancelled","cancellation_reason":"double entry"}`))
	require.NoError(t, err)
	assert.Equal(t, t0, *resp.CancelledAt)
	assert.Equal(t, "double entry", *resp.CancellationReason)
	assert.Equal(t, []string{"confirmed->completed", "pending->cancelled"}, f.metrics.transitions)
}

func TestUpdate_Validation(t *testing.T) {
	f := newFixture(true)
	id := f.add(domain.StatusPending, date, "10:00", "11:00")

	tests := []struct {
		body  string
		field string
	}{
		{`{"customer_email":"nope"}`, "customer_email"},
		{`{"customer_name":""}`, "customer_name"},
		{`{"end_time":"09:00"}`, "end_time"},
		{`{"start_time":"7pm"}`, "start_time"},
		{`{"booking_date":"11/03/2026"}`, "booking_date"},
		{`{"party_size":0}`, "party_size"},
		{`{"status":"archived"}`, "status"},
		{`{"payment_status":"free"}`, "payment_status"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			_, err := f.svc.Update(context.Background(), f.mem.Store(), id, decodeUpdate(t, tt.body))
			require.ErrorIs(t, err, ErrInvalidInput)
			fields, ok := validation.Fields(err)
			require.True(t, ok)
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestUpdate_RescheduleChecksConflicts(t *testing.T) {
	f := newFixture(true)
	f.add(domain.StatusConfirmed, date, "10:00", "11:00")
	id := f.add(domain.StatusPending, date, "14:00", "15:00")
	ctx := context.Background()

	_, err := f.svc.Update(ctx, f.mem.Store(), id, decodeUpdate(t, `{"start_time":"11:00","end_time":"12:00"}`))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Equal(t, 1, f.metrics.conflicts)

	// Сдвиг внутри собственного окна не конфликтует сам с собой
	resp, err := f.svc.Update(ctx, f.mem.Store(), id, decodeUpdate(t, `{"start_time":"14:30","end_time":"15:30"}`))
	require.NoError(t, err)
	assert.Equal(t, "14:30", resp.StartTime)
}

func TestUpdate_LegacyModeSkipsConflictCheck(t *testing.T) {
	f := newFixture(false)
	f.add(domain.StatusConfirmed, date, "10:00", "11:00")
	id := f.add(domain.StatusPending, date, "14:00", "15:00")

	_, err := f.svc.Update(context.Background(), f.mem.Store(), id, decodeUpdate(t, `{"start_time":"10:00","end_time":"11:00"}`))
	assert.NoError(t, err)
	assert.Empty(t, f.mem.LockedKeys)
}

func TestDelete(t *testing.T) {
	f := newFixture(true)
	id := f.add(domain.StatusPending, date, "10:00", "11:00")

	require.NoError(t, f.svc.Delete(context.Background(), f.mem.Store(), id))
	assert.Empty(t, f.mem.Bookings)
}

func TestList_Filters(t *testing.T) {
	f := newFixture(true)
	yesterday := date.AddDate(0, 0, -1)
	f.add(domain.StatusPending, date, "10:00", "11:00")
	f.add(domain.StatusCancelled, date, "11:00", "12:00")
	f.add(domain.StatusCompleted, date.AddDate(0, 0, 1), "09:00", "10:00")
	f.add(domain.StatusConfirmed, yesterday, "09:00", "10:00")
	ctx := context.Background()

	resp, err := f.svc.List(ctx, f.mem.Store(), &models.ListBookingsRequest{Upcoming: true})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)

	resp, err = f.svc.List(ctx, f.mem.Store(), &models.ListBookingsRequest{Date: &date})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)

	status := domain.StatusConfirmed
	resp, err = f.svc.List(ctx, f.mem.Store(), &models.ListBookingsRequest{Status: &status})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, yesterday.Format(domain.DateFormat), resp.Bookings[0].BookingDate)

	resp, err = f.svc.List(ctx, f.mem.Store(), &models.ListBookingsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 4)
	assert.Equal(t, "2026-03-12", resp.Bookings[0].BookingDate)
	assert.Equal(t, "10:00", resp.Bookings[1].StartTime)
	assert.Equal(t, "11:00", resp.Bookings[2].StartTime)

	bad := domain.BookingStatus("archived")
	_, err = f.svc.List(ctx, f.mem.Store(), &models.ListBookingsRequest{Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDashboard(t *testing.T) {
	f := newFixture(true)
	f.add(domain.StatusPending, date, "10:00", "11:00")                   // today, pending, week, month
	f.add(domain.StatusCancelled, date, "11:00", "12:00")                 // excluded everywhere
	f.add(domain.StatusConfirmed, date.AddDate(0, 0, 4), "09:00", "10:00") // sunday: week, month
	f.add(domain.StatusCompleted, date.AddDate(0, 0, 5), "09:00", "10:00") // next week, month
	f.add(domain.StatusConfirmed, date.AddDate(0, 1, 0), "09:00", "10:00") // next month

	stats, err := f.svc.Dashboard(context.Background(), f.mem.Store())
	require.NoError(t, err)

	assert.Equal(t, &models.DashboardResponse{
		Today:     1,
		Pending:   1,
		Upcoming:  3,
		ThisWeek:  2,
		ThisMonth: 3,
	}, stats)
}

func TestCalendar(t *testing.T) {
	f := newFixture(true)
	f.add(domain.StatusConfirmed, date.AddDate(0, 0, 1), "09:00", "10:00")
	f.add(domain.StatusPending, date, "13:00", "14:00")
	f.add(domain.StatusPending, date, "10:00", "11:00")
	f.add(domain.StatusCancelled, date, "11:00", "12:00")
	f.add(domain.StatusPending, date.AddDate(0, 1, 0), "10:00", "11:00")

	events, err := f.svc.Calendar(context.Background(), f.mem.Store(), &models.CalendarRequest{})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "2026-03-11T10:00", events[0].Start)
	assert.Equal(t, "2026-03-11T13:00", events[1].Start)
	assert.Equal(t, "2026-03-12T09:00", events[2].Start)
	assert.Equal(t, "Ann Lee - Service", events[0].Title)
	assert.Equal(t, domain.DefaultCalendarColor, events[0].Color)
	require.NotNil(t, events[0].Booking)

	start, end := date.AddDate(0, 0, 2), date
	_, err = f.svc.Calendar(context.Background(), f.mem.Store(), &models.CalendarRequest{StartDate: &start, EndDate: &end})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestWeekBounds(t *testing.T) {
	start, end := weekBounds(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)) // воскресенье
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), end)
}
