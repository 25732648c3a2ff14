package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds every collector of the service. A nil *Metrics is valid and records nothing.
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbQueryErrors   *prometheus.CounterVec
	dbOpenConns     *prometheus.GaugeVec
	dbInUseConns    *prometheus.GaugeVec

	bookingsCreated    *prometheus.CounterVec
	bookingTransitions *prometheus.CounterVec
	bookingConflicts   prometheus.Counter
	slotsGenerated     prometheus.Histogram
	tenantResolutions  *prometheus.CounterVec
}

// New registers the collectors on the default registry.
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the collectors on reg.
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests.",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database statement latency.",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"database", "operation"}),
		dbQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Failed database statements.",
			ConstLabels: labels,
		}, []string{"database", "operation"}),
		dbOpenConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Open connections per pool.",
			ConstLabels: labels,
		}, []string{"database"}),
		dbInUseConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Connections in use per pool.",
			ConstLabels: labels,
		}, []string{"database"}),
		bookingsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "bookings_created_total",
			Help:        "Bookings created, by initial status.",
			ConstLabels: labels,
		}, []string{"status"}),
		bookingTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_transitions_total",
			Help:        "Booking status transitions.",
			ConstLabels: labels,
		}, []string{"from", "to"}),
		bookingConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "booking_conflicts_total",
			Help:        "Creates or updates rejected by the double-booking guard.",
			ConstLabels: labels,
		}),
		slotsGenerated: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "slots_generated",
			Help:        "Number of slots returned per availability request.",
			ConstLabels: labels,
			Buckets:     []float64{0, 1, 5, 10, 20, 40, 80},
		}),
		tenantResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "tenant_resolutions_total",
			Help:        "Tenant resolutions by source (cache, registry) and outcome.",
			ConstLabels: labels,
		}, []string{"source", "outcome"}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dbQueryDuration,
		m.dbQueryErrors,
		m.dbOpenConns,
		m.dbInUseConns,
		m.bookingsCreated,
		m.bookingTransitions,
		m.bookingConflicts,
		m.slotsGenerated,
		m.tenantResolutions,
	)

	return m
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveDBQuery implements dbmetrics.Collector.
func (m *Metrics) ObserveDBQuery(database, operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(database, operation).Observe(duration.Seconds())
	if err != nil && err != sql.ErrNoRows {
		m.dbQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// SetDBPoolStats implements dbmetrics.Collector.
func (m *Metrics) SetDBPoolStats(database string, stats sql.DBStats) {
	if m == nil {
		return
	}
	m.dbOpenConns.WithLabelValues(database).Set(float64(stats.OpenConnections))
	m.dbInUseConns.WithLabelValues(database).Set(float64(stats.InUse))
}

func (m *Metrics) IncBookingCreated(status string) {
	if m == nil {
		return
	}
	m.bookingsCreated.WithLabelValues(status).Inc()
}

func (m *Metrics) IncBookingTransition(from, to string) {
	if m == nil {
		return
	}
	m.bookingTransitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) IncBookingConflict() {
	if m == nil {
		return
	}
	m.bookingConflicts.Inc()
}

func (m *Metrics) ObserveSlotsGenerated(count int) {
	if m == nil {
		return
	}
	m.slotsGenerated.Observe(float64(count))
}

func (m *Metrics) IncTenantResolution(source, outcome string) {
	if m == nil {
		return
	}
	m.tenantResolutions.WithLabelValues(source, outcome).Inc()
}
