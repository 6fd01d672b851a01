package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revocationKeyPrefix = "auth:revoked:"

// RevocationStore records token ids invalidated by logout. Tokens are
// stateless JWTs, so revocation lives outside the token itself.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type redisRevocationStore struct {
	client *redis.Client
}

// NewRedisRevocationStore backs revocation with Redis; entries expire with
// the token so the set never grows unbounded.
func NewRedisRevocationStore(client *redis.Client) RevocationStore {
	return &redisRevocationStore{client: client}
}

func (s *redisRevocationStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revocationKeyPrefix+tokenID, "1", ttl).Err()
}

func (s *redisRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, revocationKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
