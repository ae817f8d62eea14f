package store

import "time"

// AuditLogFilters contains filter criteria for querying audit logs
type AuditLogFilters struct {
	Action    string    `json:"action,omitempty"`
	UserID    *int64    `json:"user_id,omitempty"`
	Resource  string    `json:"resource,omitempty"`
	StartTime time.Time `json:"start_time,omitzero"`
	EndTime   time.Time `json:"end_time,omitzero"`
	Search    string    `json:"search,omitempty"` // Search in action, resource
}

// AuditLogStats contains statistics about audit logs
type AuditLogStats struct {
	TotalEvents    int64            `json:"total_events"`
	Last24Hours    int64            `json:"last_24_hours"`
	Last7Days      int64            `json:"last_7_days"`
	EventsByAction map[string]int64 `json:"events_by_action"`
}
