package auth

import (
	"context"
	"time"
)

// TokenSet is the credential bundle returned by a code exchange
type TokenSet struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    *time.Time
	Scopes       []string
}

// Profile is the external identity fetched with an access token.
// Email is the linkage key and must be non-empty.
type Profile struct {
	ExternalID string
	Email      string
	Name       string
	AvatarURL  string
}

// Exchanger is the contract between the hub and an external OAuth provider.
// The code→token exchange and the profile fetch are the only outbound calls
// the hub makes.
type Exchanger interface {
	// Name returns the registry name this exchanger serves (e.g. "google")
	Name() string

	// AuthCodeURL builds the provider authorization URL bound to state
	AuthCodeURL(state string) string

	// Exchange swaps a one-time authorization code for a token set
	Exchange(ctx context.Context, code string) (*TokenSet, error)

	// FetchProfile retrieves the external identity behind an access token
	FetchProfile(ctx context.Context, accessToken string) (*Profile, error)
}
