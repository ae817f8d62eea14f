package store

import (
	"time"

	"github.com/voltaic-systems/authhub/internal/models"

	"gorm.io/gorm"
)

// Audit log operations

// CreateAuditLog appends an audit row. Pass the caller's transaction so the
// row commits together with the mutation it describes.
func (s *Store) CreateAuditLog(tx *gorm.DB, entry *models.AuditLog) error {
	return s.conn(tx).Create(entry).Error
}

// AuditLogRecord is an audit row joined with the actor's email for listings
type AuditLogRecord struct {
	models.AuditLog
	UserEmail string `json:"user_email,omitempty"`
}

// GetAuditLogsPaginated retrieves audit logs with pagination and filtering,
// joined with the actor's email where the user still exists
func (s *Store) GetAuditLogsPaginated(
	params PaginationParams,
	filters AuditLogFilters,
) ([]AuditLogRecord, PaginationResult, error) {
	query := s.db.Model(&models.AuditLog{}).
		Select("audit_logs.*, users.email AS user_email").
		Joins("LEFT JOIN users ON users.id = audit_logs.user_id")

	query = applyAuditFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, PaginationResult{}, err
	}

	var records []AuditLogRecord
	offset := (params.Page - 1) * params.PageSize
	err := query.Order("audit_logs.created_at DESC").
		Limit(params.PageSize).
		Offset(offset).
		Scan(&records).Error
	if err != nil {
		return nil, PaginationResult{}, err
	}

	return records, CalculatePagination(total, params.Page, params.PageSize), nil
}

func applyAuditFilters(query *gorm.DB, filters AuditLogFilters) *gorm.DB {
	if filters.Action != "" {
		query = query.Where("audit_logs.action = ?", filters.Action)
	}
	if filters.UserID != nil {
		query = query.Where("audit_logs.user_id = ?", *filters.UserID)
	}
	if filters.Resource != "" {
		query = query.Where("audit_logs.resource = ?", filters.Resource)
	}
	if !filters.StartTime.IsZero() {
		query = query.Where("audit_logs.created_at >= ?", filters.StartTime)
	}
	if !filters.EndTime.IsZero() {
		query = query.Where("audit_logs.created_at <= ?", filters.EndTime)
	}
	if filters.Search != "" {
		like := "%" + filters.Search + "%"
		query = query.Where(
			"audit_logs.action LIKE ? OR audit_logs.resource LIKE ?", like, like)
	}
	return query
}

// GetAuditLogStats returns aggregate statistics about the audit trail
func (s *Store) GetAuditLogStats() (AuditLogStats, error) {
	stats := AuditLogStats{EventsByAction: make(map[string]int64)}

	if err := s.db.Model(&models.AuditLog{}).Count(&stats.TotalEvents).Error; err != nil {
		return stats, err
	}

	now := time.Now()
	if err := s.db.Model(&models.AuditLog{}).
		Where("created_at >= ?", now.Add(-24*time.Hour)).
		Count(&stats.Last24Hours).Error; err != nil {
		return stats, err
	}
	if err := s.db.Model(&models.AuditLog{}).
		Where("created_at >= ?", now.Add(-7*24*time.Hour)).
		Count(&stats.Last7Days).Error; err != nil {
		return stats, err
	}

	var rows []struct {
		Action string
		Count  int64
	}
	if err := s.db.Model(&models.AuditLog{}).
		Select("action, COUNT(*) AS count").
		Group("action").
		Scan(&rows).Error; err != nil {
		return stats, err
	}
	for _, row := range rows {
		stats.EventsByAction[row.Action] = row.Count
	}

	return stats, nil
}

// DeleteOldAuditLogs removes audit rows created before the cutoff.
// Retention pruning is the single sanctioned mutation of the trail.
func (s *Store) DeleteOldAuditLogs(cutoff time.Time) (int64, error) {
	result := s.db.Where("created_at < ?", cutoff).Delete(&models.AuditLog{})
	return result.RowsAffected, result.Error
}

// CountAuditLogs returns the total number of audit rows
func (s *Store) CountAuditLogs() (int64, error) {
	var count int64
	err := s.db.Model(&models.AuditLog{}).Count(&count).Error
	return count, err
}
