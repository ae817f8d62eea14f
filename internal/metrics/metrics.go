package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var _ Recorder = (*Metrics)(nil)

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

// Metrics is the Prometheus-backed Recorder
type Metrics struct {
	// Authentication
	LoginTotal           *prometheus.CounterVec
	CallbackDuration     *prometheus.HistogramVec
	TokensIssuedTotal    prometheus.Counter
	TokenValidationTotal *prometheus.CounterVec

	// Connections
	ConnectionsCreatedTotal *prometheus.CounterVec
	ConnectionsDeletedTotal *prometheus.CounterVec
	ConnectionsActive       prometheus.Gauge

	// Admin bookkeeping
	AppsRegisteredTotal prometheus.Counter
	MappingChangesTotal *prometheus.CounterVec
	AuditEventsTotal    *prometheus.CounterVec

	// Data plane
	DataRequestsTotal *prometheus.CounterVec

	// HTTP
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Infrastructure
	DatabaseQueryErrorsTotal *prometheus.CounterVec
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init returns the process-wide Recorder. Prometheus collectors register
// with the default registry exactly once; disabled deployments get a noop
// recorder with zero overhead.
func Init(enabled bool) Recorder {
	if !enabled {
		return NewNoopMetrics()
	}

	once.Do(func() {
		defaultMetrics = newMetrics()
	})
	return defaultMetrics
}

func newMetrics() *Metrics {
	return &Metrics{
		LoginTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authhub_logins_total",
				Help: "Total number of completed login attempts",
			},
			[]string{"provider", "result"},
		),
		CallbackDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "authhub_callback_duration_seconds",
				Help:    "Time taken to process an OAuth callback end to end",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		TokensIssuedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "authhub_tokens_issued_total",
				Help: "Total number of session tokens issued",
			},
		),
		TokenValidationTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authhub_token_validation_total",
				Help: "Total number of session token validations",
			},
			[]string{"result"},
		),

		ConnectionsCreatedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authhub_connections_created_total",
				Help: "Total number of provider connections created",
			},
			[]string{"provider"},
		),
		ConnectionsDeletedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authhub_connections_deleted_total",
				Help: "Total number of provider connections soft-deleted",
			},
			[]string{"provider"},
		),
		ConnectionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "authhub_connections_active",
				Help: "Current number of active provider connections",
			},
		),

		AppsRegisteredTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "authhub_apps_registered_total",
				Help: "Total number of internal apps registered",
			},
		),
		MappingChangesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authhub_mapping_changes_total",
				Help: "Total number of service mapping mutations",
			},
			[]string{"action"}, // created, updated, deleted
		),
		AuditEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authhub_audit_events_total",
				Help: "Total number of audit log entries written",
			},
			[]string{"action"},
		),

		DataRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authhub_data_requests_total",
				Help: "Total number of data plane requests",
			},
			[]string{"provider", "service", "result"},
		),

		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request latency in seconds",
				Buckets: []float64{
					0.001, 0.005, 0.010, 0.025, 0.050,
					0.100, 0.250, 0.500, 1.0, 2.5, 5.0, 10.0,
				},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current number of HTTP requests being served",
			},
		),

		DatabaseQueryErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "database_query_errors_total",
				Help: "Total number of database query errors",
			},
			[]string{"operation"},
		),
	}
}

// RecordLogin records a completed login attempt
func (m *Metrics) RecordLogin(provider string, success bool) {
	result := resultSuccess
	if !success {
		result = resultFailure
	}
	m.LoginTotal.WithLabelValues(provider, result).Inc()
}

// RecordCallbackDuration records how long an OAuth callback took
func (m *Metrics) RecordCallbackDuration(provider string, duration time.Duration) {
	m.CallbackDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordTokenIssued records a session token issuance
func (m *Metrics) RecordTokenIssued(ttl time.Duration) {
	m.TokensIssuedTotal.Inc()
}

// RecordTokenValidation records a session token verification
func (m *Metrics) RecordTokenValidation(valid bool) {
	result := "valid"
	if !valid {
		result = "invalid"
	}
	m.TokenValidationTotal.WithLabelValues(result).Inc()
}

// RecordConnectionCreated records a new provider connection
func (m *Metrics) RecordConnectionCreated(provider string) {
	m.ConnectionsCreatedTotal.WithLabelValues(provider).Inc()
	m.ConnectionsActive.Inc()
}

// RecordConnectionDeleted records a soft-deleted connection
func (m *Metrics) RecordConnectionDeleted(provider string) {
	m.ConnectionsDeletedTotal.WithLabelValues(provider).Inc()
	m.ConnectionsActive.Dec()
}

// SetActiveConnections sets the active connection gauge (periodic refresh)
func (m *Metrics) SetActiveConnections(count int64) {
	m.ConnectionsActive.Set(float64(count))
}

// RecordAppRegistered records an internal app registration
func (m *Metrics) RecordAppRegistered() {
	m.AppsRegisteredTotal.Inc()
}

// RecordMappingChange records a mapping mutation
func (m *Metrics) RecordMappingChange(action string) {
	m.MappingChangesTotal.WithLabelValues(action).Inc()
}

// RecordAuditEvent records an audit log append
func (m *Metrics) RecordAuditEvent(action string) {
	m.AuditEventsTotal.WithLabelValues(action).Inc()
}

// RecordDataRequest records a data plane request
func (m *Metrics) RecordDataRequest(provider, service string, success bool) {
	result := resultSuccess
	if !success {
		result = resultFailure
	}
	m.DataRequestsTotal.WithLabelValues(provider, service, result).Inc()
}

// RecordDatabaseQueryError records a database query error
func (m *Metrics) RecordDatabaseQueryError(operation string) {
	m.DatabaseQueryErrorsTotal.WithLabelValues(operation).Inc()
}
