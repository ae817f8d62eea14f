package auth

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Mock identity returned for every exchange. Matches the development fixture
// used by the frontend.
const (
	MockExternalID = "google_123456"
	MockEmail      = "user@example.com"
	MockName       = "Test User"
)

// MockExchanger is a deterministic Exchanger for development and tests.
// Every code exchanges successfully into the same identity, so the callback
// path can be driven end to end without provider credentials.
type MockExchanger struct {
	ProviderName string
	AuthURL      string
	Scopes       []string
}

// Compile-time interface check.
var _ Exchanger = (*MockExchanger)(nil)

// NewMockExchanger creates a mock exchanger for the named provider. Scopes
// normally come from the registry row so the built URL matches what the real
// exchanger would request.
func NewMockExchanger(name, authURL string, scopes []string) *MockExchanger {
	if authURL == "" {
		authURL = "https://accounts.google.com/o/oauth2/v2/auth"
	}
	if len(scopes) == 0 {
		scopes = []string{"email", "profile"}
	}
	return &MockExchanger{ProviderName: name, AuthURL: authURL, Scopes: scopes}
}

// Name returns the registry name this exchanger serves
func (m *MockExchanger) Name() string {
	return m.ProviderName
}

// AuthCodeURL builds a plausible authorization URL bound to state
func (m *MockExchanger) AuthCodeURL(state string) string {
	params := url.Values{}
	params.Set("client_id", "mock_client_id")
	params.Set("redirect_uri", "http://localhost:3000/auth/callback")
	params.Set("response_type", "code")
	params.Set("scope", strings.Join(m.Scopes, " "))
	params.Set("state", state)
	return m.AuthURL + "?" + params.Encode()
}

// Exchange accepts any non-empty code and returns a deterministic token set
func (m *MockExchanger) Exchange(ctx context.Context, code string) (*TokenSet, error) {
	if code == "" {
		return nil, fmt.Errorf("empty authorization code")
	}
	return &TokenSet{
		AccessToken:  "mock_access_token_" + code,
		RefreshToken: "mock_refresh_token",
		Scopes:       m.Scopes,
	}, nil
}

// FetchProfile returns the fixed mock identity
func (m *MockExchanger) FetchProfile(
	ctx context.Context,
	accessToken string,
) (*Profile, error) {
	return &Profile{
		ExternalID: MockExternalID,
		Email:      MockEmail,
		Name:       MockName,
	}, nil
}
