package identity

import (
	"crypto/rsa"
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/tasker/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

type oauthClaims struct {
	Email         string    `json:"email"`
	EmailVerified claimBool `json:"email_verified"`
	jwt.RegisteredClaims
}

// claimBool accepts both JSON booleans and the "true"/"false" strings Apple
// puts in email_verified.
type claimBool bool

func (b *claimBool) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case bool:
		*b = claimBool(x)
	case string:
		*b = claimBool(x == "true")
	default:
		*b = false
	}
	return nil
}

// oauthIdentity is what a verified id token tells us about the caller.
type oauthIdentity struct {
	Subject string
	// Email is empty unless the provider asserted it as verified.
	Email string
}

type providerKeys struct {
	cfg       ProviderConfig
	publicKey *rsa.PublicKey
}

// oauthVerifier checks provider id tokens against statically configured keys.
type oauthVerifier struct {
	providers map[domain.IdentityProvider]providerKeys
}

func newOAuthVerifier(providers map[domain.IdentityProvider]ProviderConfig) (*oauthVerifier, error) {
	v := &oauthVerifier{providers: make(map[domain.IdentityProvider]providerKeys, len(providers))}
	for name, pc := range providers {
		keys := providerKeys{cfg: pc}
		if pc.PublicKeyPEM != "" {
			key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pc.PublicKeyPEM))
			if err != nil {
				return nil, fmt.Errorf("parsing %s public key: %w", name, err)
			}
			keys.publicKey = key
		}
		v.providers[name] = keys
	}
	return v, nil
}

// Verify returns the provider subject and the email claim when the provider
// marks it verified.
func (v *oauthVerifier) Verify(provider domain.IdentityProvider, idToken string) (*oauthIdentity, error) {
	keys, ok := v.providers[provider]
	if !ok {
		return nil, fmt.Errorf("%w: provider %s is not configured", domain.ErrAuthFailure, provider)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg(), jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if keys.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(keys.cfg.Issuer))
	}
	if keys.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(keys.cfg.Audience))
	}

	claims := &oauthClaims{}
	_, err := jwt.ParseWithClaims(idToken, claims, func(t *jwt.Token) (any, error) {
		switch t.Method.(type) {
		case *jwt.SigningMethodRSA:
			if keys.publicKey == nil {
				return nil, fmt.Errorf("no public key for %s", provider)
			}
			return keys.publicKey, nil
		case *jwt.SigningMethodHMAC:
			if keys.cfg.Secret == "" {
				return nil, fmt.Errorf("no secret for %s", provider)
			}
			return []byte(keys.cfg.Secret), nil
		default:
			return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
		}
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s id token: %w", domain.ErrAuthFailure, provider, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: %s id token has no subject", domain.ErrAuthFailure, provider)
	}
	id := &oauthIdentity{Subject: claims.Subject}
	if claims.EmailVerified {
		id.Email = claims.Email
	}
	return id, nil
}
