package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/tenant"
	"github.com/ajtaylor-dev/Pagevoo-sub002/internal/tenant/tenanttest"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/logger"
)

type fakeResolver struct {
	kind  string
	refID int64
	store *tenant.Store
	err   error
}

func (f *fakeResolver) Resolve(_ context.Context, kind string, referenceID int64) (*tenant.Store, error) {
	f.kind, f.refID = kind, referenceID
	return f.store, f.err
}

func storeEcho(w http.ResponseWriter, r *http.Request) {
	store, ok := tenant.FromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	_, _ = w.Write([]byte(store.Name))
}

func TestTenant(t *testing.T) {
	store := tenanttest.New().Store()

	tests := []struct {
		name       string
		query      string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"default type", "?reference_id=7", nil, http.StatusOK, tenant.KindTemplate},
		{"website", "?type=website&reference_id=7", nil, http.StatusOK, tenant.KindWebsite},
		{"unknown type", "?type=blog&reference_id=7", nil, http.StatusBadRequest, ""},
		{"missing reference", "?type=website", nil, http.StatusBadRequest, ""},
		{"non numeric reference", "?reference_id=abc", nil, http.StatusBadRequest, ""},
		{"zero reference", "?reference_id=0", nil, http.StatusBadRequest, ""},
		{"not resolved", "?reference_id=7", tenant.ErrTenantNotResolved, http.StatusNotFound, tenant.KindTemplate},
		{"registry down", "?reference_id=7", errors.New("connection refused"), http.StatusInternalServerError, tenant.KindTemplate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &fakeResolver{store: store, err: tt.err}
			h := Tenant(resolver, logger.Nop())(http.HandlerFunc(storeEcho))

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/slots"+tt.query, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantKind, resolver.kind)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "memory", w.Body.String())
				assert.Equal(t, int64(7), resolver.refID)
			}
		})
	}
}

func TestLogging_RequestID(t *testing.T) {
	var seen string
	h := Logging(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusCreated)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, w.Header().Get(RequestIDHeader))

	incoming := uuid.NewString()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(RequestIDHeader, incoming)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, incoming, seen)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(RequestIDHeader, "not-a-uuid")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.NotEqual(t, "not-a-uuid", seen)
}

func TestRecovery(t *testing.T) {
	h := Recovery(logger.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

type recordedRequest struct {
	method, route string
	status        int
}

type fakeHTTPMetrics struct{ got []recordedRequest }

func (f *fakeHTTPMetrics) ObserveHTTPRequest(method, route string, status int, _ time.Duration) {
	f.got = append(f.got, recordedRequest{method, route, status})
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	m := &fakeHTTPMetrics{}
	router := mux.NewRouter()
	router.Use(MetricsMiddleware(m))
	router.HandleFunc("/api/v1/bookings/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/bookings/42", nil))

	require.Len(t, m.got, 1)
	assert.Equal(t, recordedRequest{http.MethodGet, "/api/v1/bookings/{id}", http.StatusNotFound}, m.got[0])
}

func TestIPRateLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(1, 2, time.Minute, logger.Nop())
	defer limiter.Stop()

	h := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	call := func(addr string) int {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/slots", nil)
		r.RemoteAddr = addr
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:1002"))
	assert.Equal(t, http.StatusOK, call("10.0.0.2:1000"))
}

func TestIPRateLimiter_Evict(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1, time.Minute, logger.Nop())
	limiter.Stop()
	limiter.Stop()

	limiter.Allow("10.0.0.1")
	limiter.evict(time.Now().Add(2 * time.Minute))

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.Empty(t, limiter.visitors)
}
