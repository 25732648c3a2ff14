package metrics

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegistry("booking-test", prometheus.NewRegistry())

	m.IncBookingCreated("pending")
	m.IncBookingCreated("pending")
	m.IncBookingConflict()
	m.IncBookingTransition("pending", "confirmed")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.bookingsCreated.WithLabelValues("pending")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookingConflicts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookingTransitions.WithLabelValues("pending", "confirmed")))
}

func TestMetrics_DBErrorsIgnoreNoRows(t *testing.T) {
	m := NewWithRegistry("booking-test", prometheus.NewRegistry())

	m.ObserveDBQuery("tenant_1", "select", time.Millisecond, sql.ErrNoRows)
	m.ObserveDBQuery("tenant_1", "select", time.Millisecond, errors.New("conn reset"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.dbQueryErrors.WithLabelValues("tenant_1", "select")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncBookingCreated("pending")
		m.ObserveHTTPRequest("GET", "/slots", 200, time.Second)
		m.SetDBPoolStats("main", sql.DBStats{})
		m.ObserveSlotsGenerated(3)
	})
}
