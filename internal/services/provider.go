package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/voltaic-systems/authhub/internal/cache"
	"github.com/voltaic-systems/authhub/internal/models"
	"github.com/voltaic-systems/authhub/internal/store"

	"gorm.io/gorm"
)

const providerListKey = "providers:enabled"

// ProviderService serves the read-mostly provider registry through a
// cache-aside layer. Deserialization failures of stored JSON are integrity
// faults: logged loudly, opaque to the client.
type ProviderService struct {
	store     *store.Store
	listCache cache.Cache[[]models.Provider]
	rowCache  cache.Cache[models.Provider]
	ttl       time.Duration
}

// NewProviderService creates a new provider service
func NewProviderService(
	s *store.Store,
	listCache cache.Cache[[]models.Provider],
	rowCache cache.Cache[models.Provider],
	ttl time.Duration,
) *ProviderService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ProviderService{
		store:     s,
		listCache: listCache,
		rowCache:  rowCache,
		ttl:       ttl,
	}
}

// List returns enabled providers ordered by display name
func (s *ProviderService) List(ctx context.Context) ([]models.Provider, error) {
	providers, err := s.listCache.GetWithFetch(ctx, providerListKey, s.ttl,
		func(ctx context.Context, _ string) ([]models.Provider, error) {
			return s.store.ListEnabledProviders()
		})
	if err != nil {
		log.Printf("ERROR: provider registry read failed: %v", err)
		return nil, ErrIntegrity
	}
	return providers, nil
}

// ProviderStatus is a registry row annotated with whether the caller holds
// an active connection to it
type ProviderStatus struct {
	models.Provider
	Connected bool `json:"connected"`
}

// ListForUser returns enabled providers with the caller's connection state.
// The provider rows come through the cache; the connection lookup does not,
// it is per-caller.
func (s *ProviderService) ListForUser(
	ctx context.Context,
	userID int64,
) ([]ProviderStatus, error) {
	providers, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	conns, err := s.store.ListConnectionsByUserID(userID)
	if err != nil {
		return nil, err
	}
	linked := make(map[int64]bool, len(conns))
	for _, conn := range conns {
		if conn.IsActive() {
			linked[conn.ProviderID] = true
		}
	}

	annotated := make([]ProviderStatus, 0, len(providers))
	for _, p := range providers {
		annotated = append(annotated, ProviderStatus{Provider: p, Connected: linked[p.ID]})
	}
	return annotated, nil
}

// Get returns one provider by id
func (s *ProviderService) Get(ctx context.Context, id int64) (*models.Provider, error) {
	provider, err := s.rowCache.GetWithFetch(ctx, "provider:"+strconv.FormatInt(id, 10), s.ttl,
		func(ctx context.Context, _ string) (models.Provider, error) {
			row, err := s.store.GetProviderByID(id)
			if err != nil {
				return models.Provider{}, err
			}
			return *row, nil
		})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.Printf("ERROR: provider registry read failed for id %d: %v", id, err)
		return nil, ErrIntegrity
	}
	return &provider, nil
}

// GetByName returns one provider by its registry name, bypassing the cache
// (used at startup to wire exchangers)
func (s *ProviderService) GetByName(name string) (*models.Provider, error) {
	provider, err := s.store.GetProviderByName(name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: provider %s", ErrNotFound, name)
		}
		return nil, err
	}
	return provider, nil
}

// Invalidate drops cached registry reads after an out-of-band edit
func (s *ProviderService) Invalidate(ctx context.Context, id int64) {
	_ = s.listCache.Delete(ctx, providerListKey)
	_ = s.rowCache.Delete(ctx, "provider:"+strconv.FormatInt(id, 10))
}
