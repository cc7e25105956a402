package zencode

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const resetKeyPrefix = "reset-password:"

var errResetRedisUnavailable = errors.New("reset redis unavailable")

// resetStore maps hashed single-use reset tokens to user ids. Only the
// hash is keyed here; the raw token exists in the mailed link and nowhere
// else.
type resetStore struct {
	redis *redis.Client
}

func newResetStore(rdb *redis.Client) *resetStore {
	return &resetStore{redis: rdb}
}

func (s *resetStore) key(hashedToken string) string {
	return resetKeyPrefix + hashedToken
}

func (s *resetStore) Save(ctx context.Context, hashedToken, userID string, ttl time.Duration) error {
	if err := s.redis.Set(ctx, s.key(hashedToken), userID, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", errResetRedisUnavailable, err)
	}
	return nil
}

// Lookup returns the mapped user id, or "" when the token is unknown,
// expired, or already consumed.
func (s *resetStore) Lookup(ctx context.Context, hashedToken string) (string, error) {
	userID, err := s.redis.Get(ctx, s.key(hashedToken)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", errResetRedisUnavailable, err)
	}
	return userID, nil
}

func (s *resetStore) Delete(ctx context.Context, hashedToken string) error {
	if err := s.redis.Del(ctx, s.key(hashedToken)).Err(); err != nil {
		return fmt.Errorf("%w: %v", errResetRedisUnavailable, err)
	}
	return nil
}
