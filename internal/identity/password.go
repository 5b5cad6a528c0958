package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/jaevor/go-nanoid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is used when Config.BcryptCost is zero.
const DefaultBcryptCost = 12

// passwordHasher hashes and verifies account passwords.
type passwordHasher struct {
	cost int
}

func newPasswordHasher(cost int) *passwordHasher {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	return &passwordHasher{cost: cost}
}

func (h *passwordHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(b), nil
}

func (h *passwordHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// resetTokenLength is the nanoid size of a password reset token.
const resetTokenLength = 21

// newResetTokenGenerator returns a generator of URL-safe one-time tokens.
func newResetTokenGenerator() (func() string, error) {
	gen, err := nanoid.Standard(resetTokenLength)
	if err != nil {
		return nil, fmt.Errorf("creating reset token generator: %w", err)
	}
	return gen, nil
}

// hashResetToken derives the lookup key stored for a reset token. Tokens are
// high-entropy, so a fast digest is sufficient.
func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
