package zencode

import (
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kannan-innovates/zenCode/jwt"
	"github.com/kannan-innovates/zenCode/password"
	"github.com/kannan-innovates/zenCode/session"
)

// Builder assembles an Engine from its dependencies. Construction is
// allocation-only until Build, which validates the configuration and fails
// rather than defer a missing secret to first use.
type Builder struct {
	config Config
	redis  *redis.Client
	users  UserStore
	mailer Mailer
	log    *zap.Logger

	built bool
}

// New returns a Builder seeded with DefaultConfig.
func New() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithRedis sets the cache client backing every ephemeral record.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithUserStore sets the durable identity store.
func (b *Builder) WithUserStore(store UserStore) *Builder {
	b.users = store
	return b
}

// WithMailer sets the outbound mail dependency.
func (b *Builder) WithMailer(m Mailer) *Builder {
	b.mailer = m
	return b
}

// WithLogger sets the structured logger. Defaults to a nop logger.
func (b *Builder) WithLogger(log *zap.Logger) *Builder {
	b.log = log
	return b
}

// Build validates everything and returns a ready Engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.redis == nil {
		return nil, errors.New("redis client is required")
	}
	if b.users == nil {
		return nil, errors.New("user store is required")
	}
	if b.mailer == nil {
		return nil, errors.New("mailer is required")
	}
	if err := b.config.validate(); err != nil {
		return nil, err
	}

	hasher, err := password.NewArgon2(password.Config{
		Memory:      b.config.Password.Memory,
		Time:        b.config.Password.Time,
		Parallelism: b.config.Password.Parallelism,
		SaltLength:  b.config.Password.SaltLength,
		KeyLength:   b.config.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	tokens, err := jwt.NewManager(jwt.Config{
		AccessSecret:  b.config.JWT.AccessSecret,
		RefreshSecret: b.config.JWT.RefreshSecret,
		AccessTTL:     b.config.JWT.AccessTTL,
		RefreshTTL:    b.config.JWT.RefreshTTL,
		Issuer:        b.config.JWT.Issuer,
	})
	if err != nil {
		return nil, err
	}

	log := b.log
	if log == nil {
		log = zap.NewNop()
	}

	b.built = true

	return &Engine{
		config:   b.config,
		log:      log,
		users:    b.users,
		mailer:   b.mailer,
		hasher:   hasher,
		tokens:   tokens,
		sessions: session.NewStore(b.redis),
		otp:      newOTPStore(b.redis, b.config.OTP.Digits),
		resend:   newResendLimiter(b.redis, b.config.Resend),
		resets:   newResetStore(b.redis),
		invites:  newInviteStore(b.redis),
	}, nil
}
