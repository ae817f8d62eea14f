package store

import (
	"github.com/voltaic-systems/authhub/internal/models"

	"gorm.io/gorm"
)

// Admin credential operations

// GetAdminConfig retrieves the singleton admin credential row
func (s *Store) GetAdminConfig() (*models.AdminConfig, error) {
	var admin models.AdminConfig
	if err := s.db.First(&admin, models.AdminConfigID).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

// UpdateAdminPasswordHash replaces the stored admin password hash
func (s *Store) UpdateAdminPasswordHash(tx *gorm.DB, hash string) error {
	return s.conn(tx).Model(&models.AdminConfig{}).
		Where("id = ?", models.AdminConfigID).
		Update("password_hash", hash).Error
}
