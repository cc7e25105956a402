package zencode

import (
	"errors"
	"time"
)

// Config carries every tunable of the engine. Zero values are rejected at
// Build time; DefaultConfig returns production defaults.
type Config struct {
	JWT           JWTConfig
	OTP           OTPConfig
	Resend        ResendConfig
	PasswordReset PasswordResetConfig
	MentorInvite  MentorInviteConfig
	Password      PasswordConfig

	// FrontendURL is the base for reset and activation links mailed to users.
	FrontendURL string
}

// JWTConfig configures the token issuer. Access and refresh tokens are
// signed with independent secrets so one class can never verify as the
// other even before the type claim is checked.
type JWTConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// OTPConfig configures registration codes and the pending-registration
// buffer, which share the same TTL family.
type OTPConfig struct {
	Digits int
	TTL    time.Duration
}

// ResendConfig is the code re-issuance policy. CounterTTL decouples how
// long the attempt budget lasts from how long a single cooldown is.
type ResendConfig struct {
	Cooldown    time.Duration
	MaxAttempts int
	CounterTTL  time.Duration
}

// PasswordResetConfig configures single-use reset tokens.
type PasswordResetConfig struct {
	TTL time.Duration
}

// MentorInviteConfig configures invite activation tokens.
type MentorInviteConfig struct {
	TTL time.Duration
}

// PasswordConfig carries the Argon2id parameters and the policy minimum.
type PasswordConfig struct {
	MinLength   int
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultConfig returns the production defaults: 6-digit codes valid five
// minutes, 60s resend cooldown with a 3-attempt budget over a 10x window,
// 15m access tokens, 7d refresh tokens, 15m reset tokens, 24h invites.
// Signing secrets have no default and must be supplied.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 7 * 24 * time.Hour,
			Issuer:     "zencode",
		},
		OTP: OTPConfig{
			Digits: 6,
			TTL:    5 * time.Minute,
		},
		Resend: ResendConfig{
			Cooldown:    60 * time.Second,
			MaxAttempts: 3,
			CounterTTL:  10 * 60 * time.Second,
		},
		PasswordReset: PasswordResetConfig{TTL: 15 * time.Minute},
		MentorInvite:  MentorInviteConfig{TTL: 24 * time.Hour},
		Password: PasswordConfig{
			MinLength:   8,
			Memory:      64 * 1024,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
	}
}

func (c *Config) validate() error {
	if len(c.JWT.AccessSecret) == 0 {
		return errors.New("config: JWT access secret is required")
	}
	if len(c.JWT.RefreshSecret) == 0 {
		return errors.New("config: JWT refresh secret is required")
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		return errors.New("config: token TTLs must be positive")
	}
	if c.JWT.AccessTTL >= c.JWT.RefreshTTL {
		return errors.New("config: access TTL must be shorter than refresh TTL")
	}
	if c.OTP.Digits < 4 || c.OTP.Digits > 10 {
		return errors.New("config: OTP digits must be between 4 and 10")
	}
	if c.OTP.TTL <= 0 {
		return errors.New("config: OTP TTL must be positive")
	}
	if c.Resend.Cooldown <= 0 {
		return errors.New("config: resend cooldown must be positive")
	}
	if c.Resend.MaxAttempts < 1 {
		return errors.New("config: resend max attempts must be at least 1")
	}
	if c.Resend.CounterTTL < c.Resend.Cooldown {
		return errors.New("config: resend counter TTL must cover at least one cooldown")
	}
	if c.PasswordReset.TTL <= 0 {
		return errors.New("config: password reset TTL must be positive")
	}
	if c.MentorInvite.TTL <= 0 {
		return errors.New("config: mentor invite TTL must be positive")
	}
	if c.Password.MinLength < 8 {
		return errors.New("config: password minimum length must be at least 8")
	}
	return nil
}
