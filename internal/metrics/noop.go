package metrics

import "time"

// NoopMetrics discards every observation. Used when metrics are disabled so
// call sites stay unconditional.
type NoopMetrics struct{}

var _ Recorder = (*NoopMetrics)(nil)

// NewNoopMetrics creates a new no-operation metrics recorder
func NewNoopMetrics() Recorder {
	return &NoopMetrics{}
}

func (n *NoopMetrics) RecordLogin(provider string, success bool)                          {}
func (n *NoopMetrics) RecordCallbackDuration(provider string, duration time.Duration)     {}
func (n *NoopMetrics) RecordTokenIssued(ttl time.Duration)                                {}
func (n *NoopMetrics) RecordTokenValidation(valid bool)                                   {}
func (n *NoopMetrics) RecordConnectionCreated(provider string)                            {}
func (n *NoopMetrics) RecordConnectionDeleted(provider string)                            {}
func (n *NoopMetrics) SetActiveConnections(count int64)                                   {}
func (n *NoopMetrics) RecordAppRegistered()                                               {}
func (n *NoopMetrics) RecordMappingChange(action string)                                  {}
func (n *NoopMetrics) RecordAuditEvent(action string)                                     {}
func (n *NoopMetrics) RecordDataRequest(provider, service string, success bool)           {}
func (n *NoopMetrics) RecordDatabaseQueryError(operation string)                          {}
