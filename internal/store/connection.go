package store

import (
	"time"

	"github.com/voltaic-systems/authhub/internal/models"

	"gorm.io/gorm"
)

// Connection operations

// CreateConnection creates a new connection row. A duplicate
// (user_id, provider_id, external_id) surfaces as gorm.ErrDuplicatedKey.
func (s *Store) CreateConnection(tx *gorm.DB, conn *models.Connection) error {
	return s.conn(tx).Create(conn).Error
}

// GetConnectionByID retrieves a connection by primary key
func (s *Store) GetConnectionByID(id int64) (*models.Connection, error) {
	var conn models.Connection
	if err := s.db.First(&conn, id).Error; err != nil {
		return nil, err
	}
	return &conn, nil
}

// GetConnectionForUser retrieves a connection scoped to its owner.
// A row owned by someone else is indistinguishable from a missing one.
func (s *Store) GetConnectionForUser(tx *gorm.DB, userID, id int64) (*models.Connection, error) {
	var conn models.Connection
	err := s.conn(tx).Preload("Provider").Where("id = ? AND user_id = ?", id, userID).First(&conn).Error
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

// GetConnectionByIdentity finds a connection by its natural key
func (s *Store) GetConnectionByIdentity(
	tx *gorm.DB,
	userID, providerID int64,
	externalID string,
) (*models.Connection, error) {
	var conn models.Connection
	err := s.conn(tx).
		Where("user_id = ? AND provider_id = ? AND external_id = ?", userID, providerID, externalID).
		First(&conn).Error
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

// ListConnectionsByUserID returns all connections for a user with the
// provider association preloaded, newest first
func (s *Store) ListConnectionsByUserID(userID int64) ([]models.Connection, error) {
	var conns []models.Connection
	err := s.db.Preload("Provider").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&conns).Error
	return conns, err
}

// GetActiveConnection finds the caller's active connection for a provider
func (s *Store) GetActiveConnection(userID, providerID int64) (*models.Connection, error) {
	var conn models.Connection
	err := s.db.
		Where("user_id = ? AND provider_id = ? AND status = ?",
			userID, providerID, models.ConnectionStatusActive).
		First(&conn).Error
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

// UpdateConnection saves an existing connection
func (s *Store) UpdateConnection(tx *gorm.DB, conn *models.Connection) error {
	return s.conn(tx).Save(conn).Error
}

// SoftDeleteConnection flips an active connection to deleted and reports
// whether a row actually transitioned (false means it was already deleted).
func (s *Store) SoftDeleteConnection(tx *gorm.DB, id int64) (bool, error) {
	result := s.conn(tx).Model(&models.Connection{}).
		Where("id = ? AND status = ?", id, models.ConnectionStatusActive).
		Updates(map[string]any{
			"status":     models.ConnectionStatusDeleted,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CountConnectionsByStatus returns the number of connections with a status
func (s *Store) CountConnectionsByStatus(status string) (int64, error) {
	var count int64
	err := s.db.Model(&models.Connection{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
