package services

import (
	"fmt"
	"time"

	"github.com/voltaic-systems/authhub/internal/metrics"
	"github.com/voltaic-systems/authhub/internal/models"
)

// Services the mock data plane can serve per provider
var dataServices = map[string]map[string]bool{
	"google": {
		"gmail":    true,
		"calendar": true,
	},
}

// DataService serves canned provider payloads to mapped internal apps.
// A caller needs an active connection for the provider; the payloads stand
// in for real sync, which lives outside this service.
type DataService struct {
	providers   *ProviderService
	connections *ConnectionService
	metrics     metrics.Recorder
}

// NewDataService creates a new data service
func NewDataService(p *ProviderService, c *ConnectionService, rec metrics.Recorder) *DataService {
	return &DataService{providers: p, connections: c, metrics: rec}
}

// Fetch returns the canned payload for (provider, service) after checking
// the caller holds an active connection
func (s *DataService) Fetch(
	userID int64,
	providerName, serviceName string,
) (models.JSONMap, error) {
	if err := s.authorize(userID, providerName, serviceName); err != nil {
		s.metrics.RecordDataRequest(providerName, serviceName, false)
		return nil, err
	}
	s.metrics.RecordDataRequest(providerName, serviceName, true)

	switch serviceName {
	case "gmail":
		return models.JSONMap{
			"service": "gmail",
			"messages": []models.JSONMap{
				{
					"id":      "msg_001",
					"from":    "colleague@example.com",
					"subject": "Q3 planning notes",
					"snippet": "Attached are the notes from yesterday's session...",
				},
				{
					"id":      "msg_002",
					"from":    "noreply@calendar.google.com",
					"subject": "Reminder: design review at 14:00",
					"snippet": "This event starts in 30 minutes.",
				},
			},
			"fetched_at": time.Now().UTC().Format(time.RFC3339),
		}, nil
	case "calendar":
		return models.JSONMap{
			"service": "calendar",
			"events": []models.JSONMap{
				{
					"id":       "evt_001",
					"title":    "Design review",
					"start":    "2025-06-10T14:00:00Z",
					"end":      "2025-06-10T15:00:00Z",
					"location": "Room 2B",
				},
			},
			"fetched_at": time.Now().UTC().Format(time.RFC3339),
		}, nil
	default:
		// authorize already rejected unknown services
		return nil, fmt.Errorf("%w: unknown service %s", ErrValidation, serviceName)
	}
}

// Sync acknowledges a sync request for (provider, service)
func (s *DataService) Sync(
	userID int64,
	providerName, serviceName string,
) (models.JSONMap, error) {
	if err := s.authorize(userID, providerName, serviceName); err != nil {
		s.metrics.RecordDataRequest(providerName, serviceName, false)
		return nil, err
	}
	s.metrics.RecordDataRequest(providerName, serviceName, true)
	return models.JSONMap{
		"status":    "queued",
		"provider":  providerName,
		"service":   serviceName,
		"queued_at": time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// authorize validates the (provider, service) pair and the caller's active
// connection for the provider
func (s *DataService) authorize(userID int64, providerName, serviceName string) error {
	services, ok := dataServices[providerName]
	if !ok {
		return fmt.Errorf("%w: unknown provider %s", ErrValidation, providerName)
	}
	if !services[serviceName] {
		return fmt.Errorf("%w: unknown service %s for provider %s",
			ErrValidation, serviceName, providerName)
	}

	provider, err := s.providers.GetByName(providerName)
	if err != nil {
		return err
	}
	if _, err := s.connections.ActiveConnection(userID, provider.ID); err != nil {
		return err
	}
	return nil
}
