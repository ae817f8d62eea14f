package store

import "github.com/voltaic-systems/authhub/internal/models"

// Provider registry operations

// ListEnabledProviders returns enabled providers ordered by display name
func (s *Store) ListEnabledProviders() ([]models.Provider, error) {
	var providers []models.Provider
	err := s.db.Where("enabled = ?", true).
		Order("display_name ASC").
		Find(&providers).Error
	return providers, err
}

// GetProviderByID retrieves a provider by primary key
func (s *Store) GetProviderByID(id int64) (*models.Provider, error) {
	var provider models.Provider
	if err := s.db.First(&provider, id).Error; err != nil {
		return nil, err
	}
	return &provider, nil
}

// GetProviderByName retrieves a provider by its unique name
func (s *Store) GetProviderByName(name string) (*models.Provider, error) {
	var provider models.Provider
	if err := s.db.Where("name = ?", name).First(&provider).Error; err != nil {
		return nil, err
	}
	return &provider, nil
}

// CreateProvider creates a new provider registry row
func (s *Store) CreateProvider(provider *models.Provider) error {
	return s.db.Create(provider).Error
}

// CountProviders returns the total number of providers
func (s *Store) CountProviders() (int64, error) {
	var count int64
	err := s.db.Model(&models.Provider{}).Count(&count).Error
	return count, err
}
