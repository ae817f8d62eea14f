package store

import (
	"time"

	"github.com/voltaic-systems/authhub/internal/models"

	"gorm.io/gorm"
)

// MappingUpdate carries the optional fields of a partial mapping update.
// A nil field is left untouched; an update with no fields set is a no-op.
type MappingUpdate struct {
	MappingConfig *models.JSONMap
	Status        *string
}

// IsEmpty reports whether the update carries no fields
func (u MappingUpdate) IsEmpty() bool {
	return u.MappingConfig == nil && u.Status == nil
}

// App mapping operations

// CreateMapping creates a new mapping row
func (s *Store) CreateMapping(tx *gorm.DB, mapping *models.AppMapping) error {
	return s.conn(tx).Create(mapping).Error
}

// GetMappingByID retrieves a mapping by primary key
func (s *Store) GetMappingByID(tx *gorm.DB, id int64) (*models.AppMapping, error) {
	var mapping models.AppMapping
	if err := s.conn(tx).First(&mapping, id).Error; err != nil {
		return nil, err
	}
	return &mapping, nil
}

// ListMappingsPaginated returns mappings with their target app preloaded
func (s *Store) ListMappingsPaginated(
	params PaginationParams,
) ([]models.AppMapping, PaginationResult, error) {
	query := s.db.Model(&models.AppMapping{})
	if params.Search != "" {
		query = query.Where("external_service LIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, PaginationResult{}, err
	}

	var mappings []models.AppMapping
	offset := (params.Page - 1) * params.PageSize
	err := query.Preload("InternalApp").
		Order("created_at DESC").
		Limit(params.PageSize).
		Offset(offset).
		Find(&mappings).Error
	if err != nil {
		return nil, PaginationResult{}, err
	}

	return mappings, CalculatePagination(total, params.Page, params.PageSize), nil
}

// UpdateMappingPartial applies only the supplied fields of a partial update.
// Returns ErrEmptyUpdate without touching the row (updated_at included) when
// the update carries nothing.
func (s *Store) UpdateMappingPartial(tx *gorm.DB, id int64, update MappingUpdate) error {
	if update.IsEmpty() {
		return ErrEmptyUpdate
	}

	fields := map[string]any{"updated_at": time.Now()}
	if update.MappingConfig != nil {
		fields["mapping_config"] = *update.MappingConfig
	}
	if update.Status != nil {
		fields["status"] = *update.Status
	}

	result := s.conn(tx).Model(&models.AppMapping{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteMapping hard-deletes a mapping and reports whether a row existed
func (s *Store) DeleteMapping(tx *gorm.DB, id int64) (bool, error) {
	result := s.conn(tx).Delete(&models.AppMapping{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CountMappings returns the total number of mappings
func (s *Store) CountMappings() (int64, error) {
	var count int64
	err := s.db.Model(&models.AppMapping{}).Count(&count).Error
	return count, err
}
