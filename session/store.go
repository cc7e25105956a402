package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "refresh:"

// ErrSessionNotFound is returned when a refresh-token identifier has no
// live binding: never bound, expired, revoked, or superseded by rotation.
var ErrSessionNotFound = errors.New("refresh session not found")

// ErrRedisUnavailable wraps transport failures to Redis.
var ErrRedisUnavailable = errors.New("redis unavailable")

// rotate retires the old identifier and binds the new one in one script,
// guarded on the old binding still belonging to the user. Concurrent
// rotations of the same identifier admit exactly one winner; the rest see
// the binding already gone.
const rotateScript = `
local bound = redis.call("GET", KEYS[1])
if not bound or bound ~= ARGV[1] then
  return 0
end
redis.call("DEL", KEYS[1])
redis.call("SET", KEYS[2], ARGV[1], "EX", ARGV[2])
return 1
`

var rotateLua = redis.NewScript(rotateScript)

// Store is the Redis-backed registry. Safe for concurrent use.
type Store struct {
	redis *redis.Client
}

// NewStore returns a registry over the given Redis client.
func NewStore(rdb *redis.Client) *Store {
	return &Store{redis: rdb}
}

func key(tokenID string) string {
	return keyPrefix + tokenID
}

// Bind maps tokenID to userID for ttl.
func (s *Store) Bind(ctx context.Context, tokenID, userID string, ttl time.Duration) error {
	if err := s.redis.Set(ctx, key(tokenID), userID, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Resolve returns the user id bound to tokenID, or ErrSessionNotFound.
func (s *Store) Resolve(ctx context.Context, tokenID string) (string, error) {
	userID, err := s.redis.Get(ctx, key(tokenID)).Result()
	if err == redis.Nil {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return userID, nil
}

// Revoke removes the binding for tokenID. Revoking an absent binding is a
// no-op, which makes logout idempotent.
func (s *Store) Revoke(ctx context.Context, tokenID string) error {
	if err := s.redis.Del(ctx, key(tokenID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Rotate retires oldID and binds newID to userID in one atomic step,
// provided oldID is still bound to userID. It returns ErrSessionNotFound
// when the old binding is gone or owned by someone else, so racing
// rotations of the same identifier admit exactly one winner.
func (s *Store) Rotate(ctx context.Context, oldID, newID, userID string, ttl time.Duration) error {
	seconds := int64(ttl / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	res, err := rotateLua.Run(ctx, s.redis, []string{key(oldID), key(newID)}, userID, seconds).Int64()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if res != 1 {
		return ErrSessionNotFound
	}
	return nil
}
