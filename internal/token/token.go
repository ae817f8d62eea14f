package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: bad signature, expiry,
// malformed token, or a missing/non-numeric subject. Callers treat all of
// them as unauthenticated.
var ErrInvalidToken = errors.New("invalid or expired token")

// Default session lifetimes. The login path issues the longer token.
const (
	DefaultTTL = 15 * time.Minute
	LoginTTL   = 30 * time.Minute
)

// Manager issues and verifies HS256 session tokens with the user id as
// subject. The secret is shared across instances.
type Manager struct {
	secret     []byte
	defaultTTL time.Duration
	loginTTL   time.Duration
}

// NewManager creates a token manager. Zero lifetimes fall back to the
// package defaults.
func NewManager(secret string, defaultTTL, loginTTL time.Duration) *Manager {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	if loginTTL <= 0 {
		loginTTL = LoginTTL
	}
	return &Manager{
		secret:     []byte(secret),
		defaultTTL: defaultTTL,
		loginTTL:   loginTTL,
	}
}

// DefaultTTL returns the manager's default session lifetime
func (m *Manager) DefaultTTL() time.Duration {
	return m.defaultTTL
}

// LoginTTL returns the session lifetime issued by the login path
func (m *Manager) LoginTTL() time.Duration {
	return m.loginTTL
}

// Issue creates a signed token for the user. ttl falls back to the manager
// default when zero.
func (m *Manager) Issue(userID int64, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = m.defaultTTL
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify validates a token and returns the user id from its subject
func (m *Manager) Verify(tokenString string) (int64, error) {
	parsed, err := jwt.ParseWithClaims(
		tokenString,
		&jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return userID, nil
}

// VerifyOptional validates a token without failing: an absent or invalid
// token degrades to the anonymous caller (ok=false).
func (m *Manager) VerifyOptional(tokenString string) (int64, bool) {
	if tokenString == "" {
		return 0, false
	}
	userID, err := m.Verify(tokenString)
	if err != nil {
		return 0, false
	}
	return userID, true
}
