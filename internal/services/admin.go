package services

import (
	"errors"
	"fmt"

	"github.com/voltaic-systems/authhub/internal/models"
	"github.com/voltaic-systems/authhub/internal/store"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DashboardStats are the counts shown on the admin dashboard
type DashboardStats struct {
	Users             int64 `json:"users"`
	ActiveConnections int64 `json:"active_connections"`
	Providers         int64 `json:"providers"`
	InternalApps      int64 `json:"internal_apps"`
	Mappings          int64 `json:"mappings"`
	AuditEvents       int64 `json:"audit_events"`
}

// AdminService verifies and rotates the singleton admin credential and
// aggregates dashboard counts.
type AdminService struct {
	store *store.Store
	audit *AuditService
}

// NewAdminService creates a new admin service
func NewAdminService(s *store.Store, audit *AuditService) *AdminService {
	return &AdminService{store: s, audit: audit}
}

// VerifyPassword compares a plaintext candidate against the stored bcrypt
// hash. A missing credential row means no password verifies; that is a
// plain false, not an error.
func (s *AdminService) VerifyPassword(plaintext string) (bool, error) {
	admin, err := s.store.GetAdminConfig()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	err = bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(plaintext))
	return err == nil, nil
}

// UpdatePassword rotates the admin credential after verifying the current
// password
func (s *AdminService) UpdatePassword(current, next string, meta RequestMeta) error {
	if len(next) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	ok, err := s.VerifyPassword(current)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthenticated
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.store.WithTx(func(tx *gorm.DB) error {
		if err := s.store.UpdateAdminPasswordHash(tx, string(hash)); err != nil {
			return err
		}
		return s.audit.Record(tx, AuditEntry{
			Action:   models.ActionAdminPassword,
			Resource: "admin_config",
			Meta:     meta,
		})
	})
}

// Stats aggregates the dashboard counts
func (s *AdminService) Stats() (*DashboardStats, error) {
	stats := &DashboardStats{}
	var err error

	if stats.Users, err = s.store.CountUsers(); err != nil {
		return nil, err
	}
	if stats.ActiveConnections, err = s.store.CountConnectionsByStatus(
		models.ConnectionStatusActive); err != nil {
		return nil, err
	}
	if stats.Providers, err = s.store.CountProviders(); err != nil {
		return nil, err
	}
	if stats.InternalApps, err = s.store.CountInternalApps(); err != nil {
		return nil, err
	}
	if stats.Mappings, err = s.store.CountMappings(); err != nil {
		return nil, err
	}
	if stats.AuditEvents, err = s.store.CountAuditLogs(); err != nil {
		return nil, err
	}
	return stats, nil
}
