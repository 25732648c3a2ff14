package create_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/domain"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/tenant"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/tenant/tenanttest"
	createBooking "github.com/ajtaylor-dev/Pagevoo-sub002/internal/usecase/create_booking"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/logger"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/validation"
)

type fakeUseCase struct {
	got *createBooking.Request
	fn  func(req *createBooking.Request) (*createBooking.Response, error)
}

func (f *fakeUseCase) Execute(_ context.Context, _ *tenant.Store, req *createBooking.Request) (*createBooking.Response, error) {
	f.got = req
	return f.fn(req)
}

type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func serve(t *testing.T, uc *fakeUseCase, body string, withStore bool) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	if withStore {
		r = r.WithContext(tenant.WithStore(r.Context(), tenanttest.New().Store()))
	}
	w := httptest.NewRecorder()

	NewHandler(uc, logger.Nop()).Handle(w, r)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

const validBody = `{
	"service_id": 3,
	"customer_name": "Ann Lee",
	"customer_email": "ann@example.com",
	"booking_date": "2026-03-12",
	"start_time": "10:00",
	"end_time": "11:00"
}`

func TestHandle_Created(t *testing.T) {
	uc := &fakeUseCase{fn: func(req *createBooking.Request) (*createBooking.Response, error) {
		return &createBooking.Response{Booking: &domain.Booking{
			ID:            9,
			Reference:     "BK-ABCDEFGH",
			ServiceID:     req.ServiceID,
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
			BookingDate:   req.BookingDate,
			StartTime:     req.StartTime,
			EndTime:       req.EndTime,
			PartySize:     1,
			Status:        domain.StatusPending,
			PaymentStatus: domain.PaymentUnpaid,
		}}, nil
	}}

	w, env := serve(t, uc, validBody, true)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, msgCreated, env.Message)
	assert.Contains(t, string(env.Data), `"booking_reference":"BK-ABCDEFGH"`)

	require.NotNil(t, uc.got)
	assert.Equal(t, int64(3), uc.got.ServiceID)
	assert.Equal(t, time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC), uc.got.BookingDate)
	assert.Equal(t, "10:00", uc.got.StartTime.String())
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantField  string
	}{
		{
			name:       "malformed json",
			body:       `{"service_id":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unparsable date",
			body:       `{"service_id":3,"booking_date":"12.03.2026"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantField:  "booking_date",
		},
		{
			name:       "validation",
			body:       validBody,
			err:        fmt.Errorf("%w: %w", createBooking.ErrInvalidInput, validation.Errors{"customer_email": "must be a valid email address"}),
			wantStatus: http.StatusUnprocessableEntity,
			wantField:  "customer_email",
		},
		{
			name:       "slot taken",
			body:       validBody,
			err:        createBooking.ErrSlotNotAvailable,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "inactive service",
			body:       validBody,
			err:        createBooking.ErrServiceInactive,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "reference exhausted",
			body:       validBody,
			err:        createBooking.ErrReferenceExhausted,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "internal",
			body:       validBody,
			err:        fmt.Errorf("%w: boom", createBooking.ErrInternal),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{fn: func(*createBooking.Request) (*createBooking.Response, error) {
				return nil, tt.err
			}}

			w, env := serve(t, uc, tt.body, true)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.False(t, env.Success)
			if tt.wantField != "" {
				assert.Contains(t, env.Errors, tt.wantField)
			}
		})
	}
}

func TestHandle_NoTenant(t *testing.T) {
	uc := &fakeUseCase{fn: func(*createBooking.Request) (*createBooking.Response, error) {
		t.Fatal("use case must not be called")
		return nil, nil
	}}

	w, env := serve(t, uc, validBody, false)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "tenant not resolved", env.Message)
}
