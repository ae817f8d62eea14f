package util

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCryptoRandomString(t *testing.T) {
	s, err := CryptoRandomString(17)
	require.NoError(t, err)
	assert.Len(t, s, 17)

	other, err := CryptoRandomString(17)
	require.NoError(t, err)
	assert.NotEqual(t, s, other)
}

func TestRandomStateToken(t *testing.T) {
	token, err := RandomStateToken()
	require.NoError(t, err)

	decoded, err := base64.RawURLEncoding.DecodeString(token)
	require.NoError(t, err)
	assert.Len(t, decoded, StateTokenBytes)

	other, err := RandomStateToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}
