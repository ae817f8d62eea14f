package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/voltaic-systems/authhub/internal/auth"
	"github.com/voltaic-systems/authhub/internal/metrics"
	"github.com/voltaic-systems/authhub/internal/models"
	"github.com/voltaic-systems/authhub/internal/store"
	"github.com/voltaic-systems/authhub/internal/token"
	"github.com/voltaic-systems/authhub/internal/util"

	"gorm.io/gorm"
)

// AuthService drives the OAuth linkage flow: authorization URL, callback
// exchange, and session issuance. The callback path is the only writer of
// user and connection rows.
type AuthService struct {
	store      *store.Store
	tokens     *token.Manager
	exchangers map[string]auth.Exchanger
	audit      *AuditService
	metrics    metrics.Recorder
}

// CallbackResult is the outcome of a completed OAuth callback
type CallbackResult struct {
	User        *models.User
	Connection  *models.Connection
	AccessToken string
	ExpiresIn   int // seconds
}

// NewAuthService creates a new auth service
func NewAuthService(
	s *store.Store,
	tokens *token.Manager,
	exchangers map[string]auth.Exchanger,
	audit *AuditService,
	rec metrics.Recorder,
) *AuthService {
	return &AuthService{
		store:      s,
		tokens:     tokens,
		exchangers: exchangers,
		audit:      audit,
		metrics:    rec,
	}
}

// AuthorizeURL builds the provider authorization URL with a fresh state
// token. The state binds redirect to callback and is not persisted.
func (s *AuthService) AuthorizeURL(providerName string) (authURL, state string, err error) {
	exchanger, ok := s.exchangers[providerName]
	if !ok {
		return "", "", fmt.Errorf("%w: unknown provider %s", ErrNotFound, providerName)
	}

	state, err = util.RandomStateToken()
	if err != nil {
		return "", "", err
	}
	return exchanger.AuthCodeURL(state), state, nil
}

// HandleCallback exchanges the authorization code, fetches the external
// identity and completes the linkage in one transaction: user upsert,
// connection create-or-refresh, and the audit row commit together. Returns a
// login session token.
func (s *AuthService) HandleCallback(
	ctx context.Context,
	providerName, code string,
	meta RequestMeta,
) (*CallbackResult, error) {
	start := time.Now()

	exchanger, ok := s.exchangers[providerName]
	if !ok {
		return nil, fmt.Errorf("%w: unknown provider %s", ErrNotFound, providerName)
	}
	if code == "" {
		return nil, fmt.Errorf("%w: code is required", ErrValidation)
	}

	provider, err := s.store.GetProviderByName(providerName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unknown provider %s", ErrNotFound, providerName)
		}
		return nil, err
	}

	tokenSet, err := exchanger.Exchange(ctx, code)
	if err != nil {
		s.metrics.RecordLogin(providerName, false)
		return nil, fmt.Errorf("%w: code exchange failed: %v", ErrUnauthenticated, err)
	}

	profile, err := exchanger.FetchProfile(ctx, tokenSet.AccessToken)
	if err != nil {
		s.metrics.RecordLogin(providerName, false)
		return nil, fmt.Errorf("%w: profile fetch failed: %v", ErrUnauthenticated, err)
	}
	if profile.Email == "" {
		return nil, fmt.Errorf("%w: provider returned no email", ErrValidation)
	}

	var result CallbackResult
	var created bool
	err = s.store.WithTx(func(tx *gorm.DB) error {
		user, err := s.store.UpsertUserByEmail(tx, profile.Email, profile.Name, profile.AvatarURL)
		if err != nil {
			return err
		}

		var conn *models.Connection
		conn, created, err = s.linkConnection(tx, user, provider, profile, tokenSet)
		if err != nil {
			return err
		}

		if err := s.audit.Record(tx, AuditEntry{
			UserID:   &user.ID,
			Action:   models.ActionUserLogin,
			Resource: "provider:" + provider.Name,
			Details: models.AuditDetails{
				"provider":    provider.Name,
				"external_id": profile.ExternalID,
			},
			Meta: meta,
		}); err != nil {
			return err
		}
		if created {
			if err := s.audit.Record(tx, AuditEntry{
				UserID:   &user.ID,
				Action:   models.ActionConnectionCreate,
				Resource: fmt.Sprintf("connection:%d", conn.ID),
				Details:  models.AuditDetails{"provider": provider.Name},
				Meta:     meta,
			}); err != nil {
				return err
			}
		}

		result.User = user
		result.Connection = conn
		return nil
	})
	if err != nil {
		s.metrics.RecordLogin(providerName, false)
		return nil, err
	}

	sessionToken, err := s.tokens.Issue(result.User.ID, s.tokens.LoginTTL())
	if err != nil {
		return nil, err
	}
	result.AccessToken = sessionToken
	result.ExpiresIn = int(s.tokens.LoginTTL() / time.Second)

	s.metrics.RecordLogin(providerName, true)
	s.metrics.RecordTokenIssued(s.tokens.LoginTTL())
	if created {
		s.metrics.RecordConnectionCreated(provider.Name)
	}
	s.metrics.RecordCallbackDuration(providerName, time.Since(start))

	log.Printf("User %d linked %s (external id %s)",
		result.User.ID, provider.Name, profile.ExternalID)
	return &result, nil
}

// linkConnection creates the connection for (user, provider, external id) or
// refreshes its credentials when the row already exists. A soft-deleted row
// is revived to active by a fresh authorization.
func (s *AuthService) linkConnection(
	tx *gorm.DB,
	user *models.User,
	provider *models.Provider,
	profile *auth.Profile,
	tokenSet *auth.TokenSet,
) (*models.Connection, bool, error) {
	existing, err := s.store.GetConnectionByIdentity(tx, user.ID, provider.ID, profile.ExternalID)
	switch {
	case err == nil:
		existing.AccessToken = tokenSet.AccessToken
		existing.RefreshToken = tokenSet.RefreshToken
		existing.ExpiresAt = tokenSet.ExpiresAt
		existing.Scopes = tokenSet.Scopes
		existing.Status = models.ConnectionStatusActive
		if err := s.store.UpdateConnection(tx, existing); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		conn := &models.Connection{
			UserID:       user.ID,
			ProviderID:   provider.ID,
			ExternalID:   profile.ExternalID,
			AccessToken:  tokenSet.AccessToken,
			RefreshToken: tokenSet.RefreshToken,
			ExpiresAt:    tokenSet.ExpiresAt,
			Scopes:       tokenSet.Scopes,
			Status:       models.ConnectionStatusActive,
		}
		if err := s.store.CreateConnection(tx, conn); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, false, ErrConflict
			}
			return nil, false, err
		}
		return conn, true, nil
	default:
		return nil, false, err
	}
}

// IssueToken creates a session token with the default lifetime
func (s *AuthService) IssueToken(userID int64) (string, int, error) {
	t, err := s.tokens.Issue(userID, 0)
	if err != nil {
		return "", 0, err
	}
	s.metrics.RecordTokenIssued(s.tokens.DefaultTTL())
	return t, int(s.tokens.DefaultTTL() / time.Second), nil
}
