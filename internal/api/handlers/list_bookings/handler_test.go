package list_bookings

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/domain"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/service/bookings"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/service/bookings/models"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/tenant"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/tenant/tenanttest"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/logger"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/validation"
)

type fakeService struct {
	got *models.ListBookingsRequest
	err error
}

func (f *fakeService) List(_ context.Context, _ *tenant.Store, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingListResponse{Bookings: []models.BookingResponse{}}, nil
}

func serve(service BookingService, query string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/bookings"+query, nil)
	r = r.WithContext(tenant.WithStore(r.Context(), tenanttest.New().Store()))
	w := httptest.NewRecorder()
	NewHandler(service, logger.Nop()).Handle(w, r)
	return w
}

func TestHandle_ParsesFilters(t *testing.T) {
	service := &fakeService{}

	w := serve(service, "?status=confirmed&service_id=2&staff_id=4&date=2026-03-12&upcoming=1&search=%20ann%20")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())

	got := service.got
	require.NotNil(t, got)
	require.NotNil(t, got.Status)
	assert.Equal(t, domain.StatusConfirmed, *got.Status)
	assert.Equal(t, int64(2), *got.ServiceID)
	assert.Equal(t, int64(4), *got.StaffID)
	assert.Nil(t, got.ResourceID)
	assert.Equal(t, "2026-03-12", got.Date.Format(domain.DateFormat))
	assert.True(t, got.Upcoming)
	assert.Equal(t, "ann", got.Search)
}

func TestHandle_BadParams(t *testing.T) {
	for _, query := range []string{"?service_id=x", "?date=12-03-2026", "?upcoming=maybe", "?end_date=2026-13-01"} {
		t.Run(query, func(t *testing.T) {
			service := &fakeService{}
			w := serve(service, query)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Nil(t, service.got)
		})
	}
}

func TestHandle_ServiceErrors(t *testing.T) {
	invalid := fmt.Errorf("%w: %w", bookings.ErrInvalidInput, validation.Errors{"status": "must be one of: pending confirmed"})
	w := serve(&fakeService{err: invalid}, "?status=nope")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"status"`)

	w = serve(&fakeService{err: bookings.ErrInternal}, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
