package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/voltaic-systems/authhub/internal/models"

	"golang.org/x/oauth2"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleConfig contains configuration for the Google exchanger
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// GoogleExchanger exchanges authorization codes against the Google endpoints
// stored in the provider registry row
type GoogleExchanger struct {
	config     *oauth2.Config
	httpClient *http.Client
}

// Compile-time interface check.
var _ Exchanger = (*GoogleExchanger)(nil)

// NewGoogleExchanger builds an exchanger from the registry row. Endpoint URLs
// and the ordered scope list come from the stored provider configuration, not
// from compiled-in constants.
func NewGoogleExchanger(
	cfg GoogleConfig,
	provider *models.Provider,
	httpClient *http.Client,
) *GoogleExchanger {
	return &GoogleExchanger{
		httpClient: httpClient,
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       provider.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  provider.OAuthConfig.AuthURL,
				TokenURL: provider.OAuthConfig.TokenURL,
			},
		},
	}
}

// Name returns the registry name this exchanger serves
func (g *GoogleExchanger) Name() string {
	return "google"
}

// AuthCodeURL builds the Google authorization URL bound to state
func (g *GoogleExchanger) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange swaps a one-time authorization code for a token set
func (g *GoogleExchanger) Exchange(ctx context.Context, code string) (*TokenSet, error) {
	if g.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, g.httpClient)
	}

	tok, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	set := &TokenSet{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Scopes:       g.config.Scopes,
	}
	if !tok.Expiry.IsZero() {
		expiry := tok.Expiry
		set.ExpiresAt = &expiry
	}
	return set, nil
}

type googleUser struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// FetchProfile retrieves the Google identity behind an access token
func (g *GoogleExchanger) FetchProfile(
	ctx context.Context,
	accessToken string,
) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	client := g.httpClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("google API error: %s - %s", resp.Status, string(body))
	}

	var user googleUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	if user.Email == "" {
		return nil, fmt.Errorf("google account has no email address")
	}

	return &Profile{
		ExternalID: user.ID,
		Email:      user.Email,
		Name:       user.Name,
		AvatarURL:  user.Picture,
	}, nil
}
