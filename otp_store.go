package zencode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kannan-innovates/zenCode/internal/random"
)

const (
	otpKeyPrefix          = "otp:"
	registrationKeyPrefix = "registration:"
)

var errOTPRedisUnavailable = errors.New("otp redis unavailable")

// consumeOTP compares and deletes in one script so concurrent verifies of
// the same code admit at most one success, even against shared Redis.
const consumeOTPScript = `
local stored = redis.call("GET", KEYS[1])
if not stored then
  return 0
end
if stored ~= ARGV[1] then
  return 0
end
redis.call("DEL", KEYS[1])
return 1
`

var consumeOTPLua = redis.NewScript(consumeOTPScript)

// pendingRegistration is the cache-buffered payload of a registration that
// has not yet proven control of its email. Password is held as submitted
// and hashed only at verification time.
type pendingRegistration struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// otpStore generates, stores, and consumes one-time codes, and buffers
// pending-registration payloads under an independent key with the same
// TTL family.
type otpStore struct {
	redis  *redis.Client
	digits int
}

func newOTPStore(rdb *redis.Client, digits int) *otpStore {
	return &otpStore{redis: rdb, digits: digits}
}

func (s *otpStore) codeKey(email string) string {
	return otpKeyPrefix + email
}

func (s *otpStore) pendingKey(email string) string {
	return registrationKeyPrefix + email
}

func (s *otpStore) Generate() (string, error) {
	return random.OTP(s.digits)
}

// Store writes the code for email, overwriting any live one. At most one
// code per email exists at a time.
func (s *otpStore) Store(ctx context.Context, email, code string, ttl time.Duration) error {
	if err := s.redis.Set(ctx, s.codeKey(email), code, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", errOTPRedisUnavailable, err)
	}
	return nil
}

// Verify consumes the stored code on match and reports the outcome. A
// mismatch or absent code returns false with no side effect: the stored
// code, if any, survives for further attempts within its TTL.
func (s *otpStore) Verify(ctx context.Context, email, code string) (bool, error) {
	res, err := consumeOTPLua.Run(ctx, s.redis, []string{s.codeKey(email)}, code).Int64()
	if err != nil {
		return false, fmt.Errorf("%w: %v", errOTPRedisUnavailable, err)
	}
	return res == 1, nil
}

// SavePending buffers the registration payload, overwriting any prior one
// for the same email.
func (s *otpStore) SavePending(ctx context.Context, email string, p pendingRegistration, ttl time.Duration) error {
	encoded, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := s.redis.Set(ctx, s.pendingKey(email), encoded, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", errOTPRedisUnavailable, err)
	}
	return nil
}

// Pending returns the buffered payload, or nil when absent or expired.
func (s *otpStore) Pending(ctx context.Context, email string) (*pendingRegistration, error) {
	data, err := s.redis.Get(ctx, s.pendingKey(email)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errOTPRedisUnavailable, err)
	}

	var p pendingRegistration
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, nil
	}
	return &p, nil
}

func (s *otpStore) ClearPending(ctx context.Context, email string) error {
	if err := s.redis.Del(ctx, s.pendingKey(email)).Err(); err != nil {
		return fmt.Errorf("%w: %v", errOTPRedisUnavailable, err)
	}
	return nil
}
