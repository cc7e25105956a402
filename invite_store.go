package zencode

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const inviteKeyPrefix = "mentor-setup:"

var errInviteRedisUnavailable = errors.New("invite redis unavailable")

// inviteStore maps mentor invite tokens to the invited email for the
// activation window.
type inviteStore struct {
	redis *redis.Client
}

func newInviteStore(rdb *redis.Client) *inviteStore {
	return &inviteStore{redis: rdb}
}

func (s *inviteStore) key(token string) string {
	return inviteKeyPrefix + token
}

func (s *inviteStore) Save(ctx context.Context, token, email string, ttl time.Duration) error {
	if err := s.redis.Set(ctx, s.key(token), email, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", errInviteRedisUnavailable, err)
	}
	return nil
}

// Lookup returns the invited email, or "" when the token is unknown or
// expired.
func (s *inviteStore) Lookup(ctx context.Context, token string) (string, error) {
	email, err := s.redis.Get(ctx, s.key(token)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", errInviteRedisUnavailable, err)
	}
	return email, nil
}

func (s *inviteStore) Delete(ctx context.Context, token string) error {
	if err := s.redis.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("%w: %v", errInviteRedisUnavailable, err)
	}
	return nil
}
