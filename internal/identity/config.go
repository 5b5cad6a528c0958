// Package identity is the authentication boundary: local accounts, OAuth
// sign-in, password reset and session tokens. It resolves every request to an
// opaque owner id that the record services scope their queries with.
package identity

import (
	"time"

	"github.com/alexanderramin/tasker/internal/domain"
)

// Config holds identity configuration.
type Config struct {
	// JWTSecret signs session tokens (HS256).
	JWTSecret string
	Issuer    string
	AccessTTL time.Duration
	ResetTTL  time.Duration
	// BcryptCost defaults to DefaultBcryptCost when zero.
	BcryptCost int
	Providers  map[domain.IdentityProvider]ProviderConfig
}

// ProviderConfig describes how to verify an OAuth provider's id tokens.
// RS256 tokens are checked against PublicKeyPEM, HS256 tokens against Secret.
type ProviderConfig struct {
	Issuer       string
	Audience     string
	PublicKeyPEM string
	Secret       string
}

const (
	MinPasswordLength = 8
	DefaultIssuer     = "tasker"
)

// DefaultConfig returns defaults suitable for local development. The secret
// must be replaced in any shared deployment.
func DefaultConfig() Config {
	return Config{
		JWTSecret: "dev-secret-change-me",
		Issuer:    DefaultIssuer,
		AccessTTL: 24 * time.Hour,
		ResetTTL:  time.Hour,
		Providers: map[domain.IdentityProvider]ProviderConfig{},
	}
}
