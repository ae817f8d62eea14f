package services

import (
	"errors"
	"fmt"

	"github.com/voltaic-systems/authhub/internal/metrics"
	"github.com/voltaic-systems/authhub/internal/models"
	"github.com/voltaic-systems/authhub/internal/store"

	"gorm.io/gorm"
)

// CreateMappingInput is the payload for creating a service mapping
type CreateMappingInput struct {
	ExternalService string         `json:"external_service"`
	InternalAppID   int64          `json:"internal_app_id"`
	MappingConfig   models.JSONMap `json:"mapping_config"`
}

// MappingService routes external service keys onto internal apps
type MappingService struct {
	store   *store.Store
	audit   *AuditService
	metrics metrics.Recorder
}

// NewMappingService creates a new mapping service
func NewMappingService(s *store.Store, audit *AuditService, rec metrics.Recorder) *MappingService {
	return &MappingService{store: s, audit: audit, metrics: rec}
}

// Create creates a mapping after a point-in-time check that the target app
// exists and is active. A missing and an inactive app are both ErrNotFound.
func (s *MappingService) Create(
	input CreateMappingInput,
	meta RequestMeta,
) (*models.AppMapping, error) {
	if input.ExternalService == "" {
		return nil, fmt.Errorf("%w: external_service is required", ErrValidation)
	}
	if input.InternalAppID <= 0 {
		return nil, fmt.Errorf("%w: internal_app_id is required", ErrValidation)
	}

	mapping := &models.AppMapping{
		ExternalService: input.ExternalService,
		InternalAppID:   input.InternalAppID,
		MappingConfig:   input.MappingConfig,
		Status:          models.MappingStatusActive,
	}

	err := s.store.WithTx(func(tx *gorm.DB) error {
		app, err := s.store.GetInternalAppByID(tx, input.InternalAppID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: internal app %d", ErrNotFound, input.InternalAppID)
			}
			return err
		}
		if !app.IsActive() {
			return fmt.Errorf("%w: internal app %d is not active", ErrNotFound, input.InternalAppID)
		}

		if err := s.store.CreateMapping(tx, mapping); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrConflict
			}
			return err
		}

		return s.audit.Record(tx, AuditEntry{
			Action:   models.ActionMappingCreated,
			Resource: fmt.Sprintf("mapping:%d", mapping.ID),
			Details: models.AuditDetails{
				"external_service": mapping.ExternalService,
				"internal_app_id":  mapping.InternalAppID,
			},
			Meta: meta,
		})
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordMappingChange("created")
	return mapping, nil
}

// List returns mappings with their target apps, paginated
func (s *MappingService) List(
	params store.PaginationParams,
) ([]models.AppMapping, store.PaginationResult, error) {
	return s.store.ListMappingsPaginated(params)
}

// Update applies a partial update. An update carrying no fields is a no-op:
// no row change, no updated_at bump, no audit entry.
func (s *MappingService) Update(
	id int64,
	update store.MappingUpdate,
	meta RequestMeta,
) (*models.AppMapping, error) {
	if update.Status != nil &&
		*update.Status != models.MappingStatusActive &&
		*update.Status != models.MappingStatusInactive {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, *update.Status)
	}

	if update.IsEmpty() {
		mapping, err := s.store.GetMappingByID(nil, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		return mapping, nil
	}

	var mapping *models.AppMapping
	err := s.store.WithTx(func(tx *gorm.DB) error {
		if err := s.store.UpdateMappingPartial(tx, id, update); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		updated, err := s.store.GetMappingByID(tx, id)
		if err != nil {
			return err
		}
		mapping = updated

		return s.audit.Record(tx, AuditEntry{
			Action:   models.ActionMappingUpdated,
			Resource: fmt.Sprintf("mapping:%d", id),
			Details:  updateDetails(update),
			Meta:     meta,
		})
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordMappingChange("updated")
	return mapping, nil
}

// Delete hard-deletes a mapping
func (s *MappingService) Delete(id int64, meta RequestMeta) error {
	err := s.store.WithTx(func(tx *gorm.DB) error {
		deleted, err := s.store.DeleteMapping(tx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrNotFound
		}
		return s.audit.Record(tx, AuditEntry{
			Action:   models.ActionMappingDeleted,
			Resource: fmt.Sprintf("mapping:%d", id),
			Meta:     meta,
		})
	})
	if err != nil {
		return err
	}
	s.metrics.RecordMappingChange("deleted")
	return nil
}

func updateDetails(update store.MappingUpdate) models.AuditDetails {
	details := models.AuditDetails{}
	if update.Status != nil {
		details["status"] = *update.Status
	}
	if update.MappingConfig != nil {
		details["mapping_config_changed"] = true
	}
	return details
}
