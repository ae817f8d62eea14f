package metrics

import "time"

// Recorder abstracts metric recording so callers never branch on whether
// metrics collection is enabled. Implementations: Metrics (Prometheus) and
// NoopMetrics.
type Recorder interface {
	// Authentication
	RecordLogin(provider string, success bool)
	RecordCallbackDuration(provider string, duration time.Duration)
	RecordTokenIssued(ttl time.Duration)
	RecordTokenValidation(valid bool)

	// Connections
	RecordConnectionCreated(provider string)
	RecordConnectionDeleted(provider string)
	SetActiveConnections(count int64)

	// Admin bookkeeping
	RecordAppRegistered()
	RecordMappingChange(action string)
	RecordAuditEvent(action string)

	// Data plane
	RecordDataRequest(provider, service string, success bool)

	// Infrastructure
	RecordDatabaseQueryError(operation string)
}
