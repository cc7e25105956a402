package zencode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const resendMetaKeyPrefix = "otp-meta:"

var errResendRedisUnavailable = errors.New("resend limiter redis unavailable")

// resendMeta is the throttle's metadata record: how many resends the email
// has spent and when the last one was accepted.
type resendMeta struct {
	Count    int   `json:"count"`
	LastSent int64 `json:"lastSent"` // unix seconds
}

// resendLimiter enforces the cooldown and attempt-budget policy for code
// re-issuance. The metadata TTL outlives a single cooldown so the attempt
// counter persists across the longer window.
type resendLimiter struct {
	redis  *redis.Client
	config ResendConfig
	now    func() time.Time
}

func newResendLimiter(rdb *redis.Client, cfg ResendConfig) *resendLimiter {
	return &resendLimiter{redis: rdb, config: cfg, now: time.Now}
}

func (l *resendLimiter) key(email string) string {
	return resendMetaKeyPrefix + email
}

// CheckAndRecord admits or denies one resend and, on admit, records it.
// The read-modify-write runs under WATCH so two concurrent resends cannot
// both pass the cooldown check against a stale read; the loser of the race
// retries against the winner's write and is denied.
func (l *resendLimiter) CheckAndRecord(ctx context.Context, email string) error {
	const maxRetries = 4
	key := l.key(email)

	for i := 0; i < maxRetries; i++ {
		err := l.redis.Watch(ctx, func(tx *redis.Tx) error {
			var meta resendMeta

			data, err := tx.Get(ctx, key).Bytes()
			switch {
			case err == redis.Nil:
				// First send in the window.
			case err != nil:
				return fmt.Errorf("%w: %v", errResendRedisUnavailable, err)
			default:
				// A corrupt record must not reset the attempt counter.
				if err := json.Unmarshal(data, &meta); err != nil {
					return wrap(ErrCacheUnavailable, err)
				}
				elapsed := l.now().Unix() - meta.LastSent
				if elapsed < int64(l.config.Cooldown/time.Second) {
					return ErrCooldownActive
				}
				if meta.Count >= l.config.MaxAttempts {
					return ErrResendLimitExceeded
				}
			}

			meta.Count++
			meta.LastSent = l.now().Unix()

			encoded, err := json.Marshal(meta)
			if err != nil {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, encoded, l.config.CounterTTL)
				return nil
			})
			return err
		}, key)

		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			var tagged *Error
			if errors.As(err, &tagged) {
				return tagged
			}
			return wrap(ErrCacheUnavailable, err)
		}
		return nil
	}

	return wrap(ErrCacheUnavailable, errors.New("resend check contention retries exhausted"))
}
