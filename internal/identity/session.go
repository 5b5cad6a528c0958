package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/tasker/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Session is an issued access token.
type Session struct {
	AccessToken string    `json:"access_token"`
	UserID      string    `json:"user_id"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// tokenManager issues and parses HS256 session tokens. The subject is the
// user id and the token id (jti) is the revocation key.
type tokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func newTokenManager(cfg Config) *tokenManager {
	issuer := cfg.Issuer
	if issuer == "" {
		issuer = DefaultIssuer
	}
	return &tokenManager{secret: []byte(cfg.JWTSecret), issuer: issuer, ttl: cfg.AccessTTL}
}

func (m *tokenManager) Issue(userID string, now time.Time) (*Session, error) {
	expires := now.Add(m.ttl)
	claims := jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Issuer:    m.issuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("signing session token: %w", err)
	}
	return &Session{AccessToken: signed, UserID: userID, ExpiresAt: expires}, nil
}

// Parse validates signature, issuer and expiry and returns the claims.
func (m *tokenManager) Parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: session expired", domain.ErrAuthFailure)
		}
		return nil, fmt.Errorf("%w: invalid session token", domain.ErrAuthFailure)
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, fmt.Errorf("%w: session token missing subject or id", domain.ErrAuthFailure)
	}
	return claims, nil
}
