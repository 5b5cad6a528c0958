package domain

import "time"

// User is an account known to the identity boundary. PasswordHash is nil for
// accounts created through an OAuth provider.
type User struct {
	ID           string
	Email        string
	PasswordHash *string
	CreatedDate  time.Time
}

// Identity links an external provider subject to a user.
type Identity struct {
	Provider    IdentityProvider
	Subject     string
	UserID      string
	CreatedDate time.Time
}

// PasswordReset is a one-time reset token, stored by hash.
type PasswordReset struct {
	TokenHash string
	UserID    string
	ExpiresAt time.Time
	UsedAt    *time.Time
}
