package store

import (
	"github.com/voltaic-systems/authhub/internal/models"

	"gorm.io/gorm"
)

// Internal app operations

// CreateInternalApp creates a new internal app row
func (s *Store) CreateInternalApp(tx *gorm.DB, app *models.InternalApp) error {
	return s.conn(tx).Create(app).Error
}

// GetInternalAppByID retrieves an internal app by primary key
func (s *Store) GetInternalAppByID(tx *gorm.DB, id int64) (*models.InternalApp, error) {
	var app models.InternalApp
	if err := s.conn(tx).First(&app, id).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

// ListActiveInternalApps returns active apps ordered by display name
func (s *Store) ListActiveInternalApps() ([]models.InternalApp, error) {
	var apps []models.InternalApp
	err := s.db.Where("status = ?", models.AppStatusActive).
		Order("display_name ASC").
		Find(&apps).Error
	return apps, err
}

// ListInternalAppsDeduplicated returns one row per (name, display_name)
// group, keeping the lowest id. Logical duplicates from repeated
// registrations collapse to their oldest row.
func (s *Store) ListInternalAppsDeduplicated() ([]models.InternalApp, error) {
	sub := s.db.Model(&models.InternalApp{}).
		Select("MIN(id)").
		Group("name, display_name")

	var apps []models.InternalApp
	err := s.db.Where("id IN (?)", sub).
		Order("id ASC").
		Find(&apps).Error
	return apps, err
}

// CountInternalApps returns the total number of internal app rows
func (s *Store) CountInternalApps() (int64, error) {
	var count int64
	err := s.db.Model(&models.InternalApp{}).Count(&count).Error
	return count, err
}
