package auth

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockAuthCodeURL(t *testing.T) {
	scopes := []string{"email", "profile", "https://www.googleapis.com/auth/gmail.readonly"}
	m := NewMockExchanger("google", "https://accounts.google.com/o/oauth2/v2/auth", scopes)

	raw := m.AuthCodeURL("state-123")
	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "accounts.google.com", parsed.Host)
	assert.Equal(t, "state-123", parsed.Query().Get("state"))
	assert.Equal(t, "code", parsed.Query().Get("response_type"))
	assert.Equal(t, "mock_client_id", parsed.Query().Get("client_id"))

	// The registry's ordered scope list rides along, space-joined
	assert.Equal(t,
		"email profile https://www.googleapis.com/auth/gmail.readonly",
		parsed.Query().Get("scope"))
}

func TestMockAuthURLFallback(t *testing.T) {
	m := NewMockExchanger("google", "", nil)
	raw := m.AuthCodeURL("s")
	assert.Contains(t, raw, "accounts.google.com")

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.NotEmpty(t, parsed.Query().Get("scope"))
}

func TestMockExchange(t *testing.T) {
	m := NewMockExchanger("google", "", nil)

	set, err := m.Exchange(context.Background(), "code-abc")
	require.NoError(t, err)
	assert.Equal(t, "mock_access_token_code-abc", set.AccessToken)
	assert.NotEmpty(t, set.RefreshToken)
	assert.NotEmpty(t, set.Scopes)

	_, err = m.Exchange(context.Background(), "")
	assert.Error(t, err)
}

func TestMockFetchProfile(t *testing.T) {
	m := NewMockExchanger("google", "", nil)

	profile, err := m.FetchProfile(context.Background(), "whatever")
	require.NoError(t, err)
	assert.Equal(t, MockExternalID, profile.ExternalID)
	assert.Equal(t, MockEmail, profile.Email)
	assert.Equal(t, MockName, profile.Name)
}
