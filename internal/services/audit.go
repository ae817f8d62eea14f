package services

import (
	"time"

	"github.com/voltaic-systems/authhub/internal/metrics"
	"github.com/voltaic-systems/authhub/internal/models"
	"github.com/voltaic-systems/authhub/internal/store"

	"gorm.io/gorm"
)

// AuditEntry is the data needed to append one audit row
type AuditEntry struct {
	UserID   *int64
	Action   string
	Resource string
	Details  models.AuditDetails
	Meta     RequestMeta
}

// AuditService owns the append-only trail: writes ride the mutation's
// transaction, reads serve the admin API, and retention pruning runs as a
// background job.
type AuditService struct {
	store   *store.Store
	metrics metrics.Recorder
}

// NewAuditService creates a new audit service
func NewAuditService(s *store.Store, rec metrics.Recorder) *AuditService {
	return &AuditService{store: s, metrics: rec}
}

// Record appends one audit row inside the caller's transaction, so the
// mutation and its trail entry commit or fail together. Pass a nil tx only
// for events with no accompanying mutation.
func (s *AuditService) Record(tx *gorm.DB, entry AuditEntry) error {
	row := &models.AuditLog{
		UserID:    entry.UserID,
		Action:    entry.Action,
		Resource:  entry.Resource,
		Details:   entry.Details,
		IPAddress: entry.Meta.IPAddress,
		UserAgent: entry.Meta.UserAgent,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateAuditLog(tx, row); err != nil {
		return err
	}
	s.metrics.RecordAuditEvent(entry.Action)
	return nil
}

// List retrieves audit logs with pagination and filtering
func (s *AuditService) List(
	params store.PaginationParams,
	filters store.AuditLogFilters,
) ([]store.AuditLogRecord, store.PaginationResult, error) {
	return s.store.GetAuditLogsPaginated(params, filters)
}

// Stats returns aggregate statistics about the trail
func (s *AuditService) Stats() (store.AuditLogStats, error) {
	return s.store.GetAuditLogStats()
}

// CleanupOldLogs deletes audit logs older than the retention period
func (s *AuditService) CleanupOldLogs(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.store.DeleteOldAuditLogs(cutoff)
}
