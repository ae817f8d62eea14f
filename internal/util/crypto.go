package util

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
)

// StateTokenBytes is the entropy of OAuth state tokens
const StateTokenBytes = 32

// CryptoRandomBytes generates cryptographically secure random bytes
func CryptoRandomBytes(length int64) ([]byte, error) {
	buf := make([]byte, length)
	_, err := rand.Read(buf)
	return buf, err
}

// CryptoRandomString generates a random hex string
func CryptoRandomString(length int) (string, error) {
	bytes, err := CryptoRandomBytes(int64((length + 1) / 2))
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes)[:length], nil
}

// RandomStateToken generates a base64url state token with StateTokenBytes of
// entropy. The token binds an authorization redirect to its callback and is
// never persisted server-side.
func RandomStateToken() (string, error) {
	bytes, err := CryptoRandomBytes(StateTokenBytes)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
