package services

import (
	"fmt"

	"github.com/voltaic-systems/authhub/internal/metrics"
	"github.com/voltaic-systems/authhub/internal/models"
	"github.com/voltaic-systems/authhub/internal/store"

	"gorm.io/gorm"
)

// RegisterAppInput is the payload for registering an internal app
type RegisterAppInput struct {
	Name         string         `json:"name"`
	DisplayName  string         `json:"display_name"`
	Description  string         `json:"description"`
	LogoURL      string         `json:"logo_url"`
	APIEndpoints models.JSONMap  `json:"api_endpoints"`
	Manifest     models.Manifest `json:"manifest"`
}

// AppService manages the internal app registry
type AppService struct {
	store   *store.Store
	audit   *AuditService
	metrics metrics.Recorder
}

// NewAppService creates a new app service
func NewAppService(s *store.Store, audit *AuditService, rec metrics.Recorder) *AppService {
	return &AppService{store: s, audit: audit, metrics: rec}
}

// ListActive returns active apps for the mapping UI
func (s *AppService) ListActive() ([]models.InternalApp, error) {
	return s.store.ListActiveInternalApps()
}

// ListDeduplicated returns the admin listing: one row per
// (name, display_name) group, keeping the lowest id
func (s *AppService) ListDeduplicated() ([]models.InternalApp, error) {
	return s.store.ListInternalAppsDeduplicated()
}

// Register creates a new internal app from a manifest submission.
// Re-registering an existing app deliberately creates a new row; the admin
// listing collapses the duplicates.
func (s *AppService) Register(
	input RegisterAppInput,
	meta RequestMeta,
) (*models.InternalApp, error) {
	if input.Name == "" || input.DisplayName == "" {
		return nil, fmt.Errorf("%w: name and display_name are required", ErrValidation)
	}
	if input.Manifest.IsZero() {
		return nil, fmt.Errorf("%w: manifest is required", ErrValidation)
	}

	app := &models.InternalApp{
		Name:         input.Name,
		DisplayName:  input.DisplayName,
		Description:  input.Description,
		LogoURL:      input.LogoURL,
		APIEndpoints: input.APIEndpoints,
		ManifestData: input.Manifest,
		Status:       models.AppStatusActive,
	}

	err := s.store.WithTx(func(tx *gorm.DB) error {
		if err := s.store.CreateInternalApp(tx, app); err != nil {
			return err
		}
		return s.audit.Record(tx, AuditEntry{
			Action:   models.ActionAppRegistered,
			Resource: "app:" + app.Name,
			Details:  models.AuditDetails{"display_name": app.DisplayName},
			Meta:     meta,
		})
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordAppRegistered()
	return app, nil
}
