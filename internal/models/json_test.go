package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOAuthEndpointsRoundTrip(t *testing.T) {
	endpoints := OAuthEndpoints{
		AuthURL:  "https://accounts.google.com/o/oauth2/v2/auth",
		TokenURL: "https://oauth2.googleapis.com/token",
	}

	value, err := endpoints.Value()
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"authUrl":"https://accounts.google.com/o/oauth2/v2/auth","tokenUrl":"https://oauth2.googleapis.com/token"}`,
		string(value.([]byte)))

	var scanned OAuthEndpoints
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, endpoints, scanned)
}

func TestOAuthEndpointsScanString(t *testing.T) {
	// Postgres JSONB can surface as string depending on the driver
	var endpoints OAuthEndpoints
	require.NoError(t, endpoints.Scan(`{"authUrl":"a","tokenUrl":"b"}`))
	assert.Equal(t, "a", endpoints.AuthURL)
	assert.Equal(t, "b", endpoints.TokenURL)
}

func TestOAuthEndpointsScanNil(t *testing.T) {
	endpoints := OAuthEndpoints{AuthURL: "stale"}
	require.NoError(t, endpoints.Scan(nil))
	assert.Equal(t, OAuthEndpoints{}, endpoints)
}

func TestStringListRoundTrip(t *testing.T) {
	scopes := StringList{"email", "profile", "calendar"}

	value, err := scopes.Value()
	require.NoError(t, err)

	var scanned StringList
	require.NoError(t, scanned.Scan(value))
	// Order is significant for scopes
	assert.Equal(t, scopes, scanned)
}

func TestStringListNilStoresEmptyArray(t *testing.T) {
	var scopes StringList
	value, err := scopes.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", string(value.([]byte)))
}

func TestJSONMapRoundTrip(t *testing.T) {
	m := JSONMap{
		"pcarp_version": "1.0",
		"nested":        map[string]any{"key": "value"},
	}

	value, err := m.Value()
	require.NoError(t, err)

	var scanned JSONMap
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, "1.0", scanned["pcarp_version"])
	nested, ok := scanned["nested"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "value", nested["key"])
}

func TestJSONMapNilIsSQLNull(t *testing.T) {
	var m JSONMap
	value, err := m.Value()
	require.NoError(t, err)
	assert.Nil(t, value)

	scanned := JSONMap{"stale": true}
	require.NoError(t, scanned.Scan(nil))
	assert.Nil(t, scanned)
}

func TestScanRejectsUnsupportedType(t *testing.T) {
	var m JSONMap
	assert.Error(t, m.Scan(12345))
}
