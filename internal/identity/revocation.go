package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/tasker/internal/domain"
	"github.com/alexanderramin/tasker/internal/repository"
	"github.com/redis/go-redis/v9"
)

// RevocationStore remembers signed-out session ids until they expire.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// SQLRevocationStore keeps revoked ids in the revoked_tokens table.
type SQLRevocationStore struct {
	repo repository.RevokedTokenRepo
}

func NewSQLRevocationStore(repo repository.RevokedTokenRepo) *SQLRevocationStore {
	return &SQLRevocationStore{repo: repo}
}

func (s *SQLRevocationStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	return s.repo.Revoke(ctx, tokenID, expiresAt)
}

func (s *SQLRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return s.repo.IsRevoked(ctx, tokenID, time.Now().UTC())
}

// Purge deletes records whose tokens have expired anyway.
func (s *SQLRevocationStore) Purge(ctx context.Context) (int64, error) {
	return s.repo.PurgeExpired(ctx, time.Now().UTC())
}

// DefaultRevocationPrefix namespaces revocation keys in Redis.
const DefaultRevocationPrefix = "tasker:revoked:"

// RedisRevocationStore keeps revoked ids as Redis keys that expire with the
// token.
type RedisRevocationStore struct {
	client *redis.Client
	prefix string
}

func NewRedisRevocationStore(client *redis.Client, prefix string) *RedisRevocationStore {
	if prefix == "" {
		prefix = DefaultRevocationPrefix
	}
	return &RedisRevocationStore{client: client, prefix: prefix}
}

func (s *RedisRevocationStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.prefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("%w: revoking token: %w", domain.ErrTransportFailure, err)
	}
	return nil
}

func (s *RedisRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.prefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("%w: checking revoked token: %w", domain.ErrTransportFailure, err)
	}
	return n > 0, nil
}
