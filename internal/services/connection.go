package services

import (
	"errors"
	"fmt"

	"github.com/voltaic-systems/authhub/internal/metrics"
	"github.com/voltaic-systems/authhub/internal/models"
	"github.com/voltaic-systems/authhub/internal/store"

	"gorm.io/gorm"
)

// ConnectionService manages the lifecycle of a user's linked accounts after
// the callback has created them. All lookups are owner-scoped.
type ConnectionService struct {
	store   *store.Store
	audit   *AuditService
	metrics metrics.Recorder
}

// NewConnectionService creates a new connection service
func NewConnectionService(s *store.Store, audit *AuditService, rec metrics.Recorder) *ConnectionService {
	return &ConnectionService{store: s, audit: audit, metrics: rec}
}

// List returns all of the caller's connections, deleted ones included, with
// their provider rows preloaded
func (s *ConnectionService) List(userID int64) ([]models.Connection, error) {
	return s.store.ListConnectionsByUserID(userID)
}

// Get returns one of the caller's connections, deleted ones included, so a
// disconnected row stays inspectable. Missing and not-owned are both
// ErrNotFound.
func (s *ConnectionService) Get(userID, connID int64) (*models.Connection, error) {
	conn, err := s.store.GetConnectionForUser(nil, userID, connID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return conn, nil
}

// Disconnect soft-deletes the caller's connection. A connection that does
// not exist and one owned by someone else both return ErrNotFound. Repeating
// the call on an already-deleted connection is an idempotent success; the
// audit row is written only on the actual active→deleted transition.
func (s *ConnectionService) Disconnect(userID, connID int64, meta RequestMeta) error {
	var deletedProvider string
	err := s.store.WithTx(func(tx *gorm.DB) error {
		conn, err := s.store.GetConnectionForUser(tx, userID, connID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		transitioned, err := s.store.SoftDeleteConnection(tx, conn.ID)
		if err != nil {
			return err
		}
		if !transitioned {
			// Already deleted; nothing to audit
			return nil
		}
		deletedProvider = conn.Provider.Name

		return s.audit.Record(tx, AuditEntry{
			UserID:   &userID,
			Action:   models.ActionConnectionDelete,
			Resource: fmt.Sprintf("connection:%d", conn.ID),
			Details:  models.AuditDetails{"provider_id": conn.ProviderID},
			Meta:     meta,
		})
	})
	if err == nil && deletedProvider != "" {
		s.metrics.RecordConnectionDeleted(deletedProvider)
	}
	return err
}

// RequestRefresh acknowledges a token refresh request for an active
// connection. The actual refresh against the provider happens out of band;
// this validates ownership and liveness.
func (s *ConnectionService) RequestRefresh(userID, connID int64) (*models.Connection, error) {
	conn, err := s.store.GetConnectionForUser(nil, userID, connID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !conn.IsActive() {
		return nil, ErrNotFound
	}
	return conn, nil
}

// ActiveConnection finds the caller's active connection for a provider
func (s *ConnectionService) ActiveConnection(
	userID, providerID int64,
) (*models.Connection, error) {
	conn, err := s.store.GetActiveConnection(userID, providerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return conn, nil
}
