package zencode

import (
	"testing"
	"time"
)

func validTestConfig() Config {
	cfg := DefaultConfig()
	cfg.JWT.AccessSecret = []byte("access-secret")
	cfg.JWT.RefreshSecret = []byte("refresh-secret")
	return cfg
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults with secrets", mutate: func(*Config) {}},
		{name: "missing access secret", mutate: func(c *Config) {
			c.JWT.AccessSecret = nil
		}, wantErr: true},
		{name: "missing refresh secret", mutate: func(c *Config) {
			c.JWT.RefreshSecret = nil
		}, wantErr: true},
		{name: "zero access TTL", mutate: func(c *Config) {
			c.JWT.AccessTTL = 0
		}, wantErr: true},
		{name: "access TTL not shorter than refresh", mutate: func(c *Config) {
			c.JWT.AccessTTL = c.JWT.RefreshTTL
		}, wantErr: true},
		{name: "too few otp digits", mutate: func(c *Config) {
			c.OTP.Digits = 3
		}, wantErr: true},
		{name: "too many otp digits", mutate: func(c *Config) {
			c.OTP.Digits = 11
		}, wantErr: true},
		{name: "zero otp TTL", mutate: func(c *Config) {
			c.OTP.TTL = 0
		}, wantErr: true},
		{name: "zero cooldown", mutate: func(c *Config) {
			c.Resend.Cooldown = 0
		}, wantErr: true},
		{name: "zero resend attempts", mutate: func(c *Config) {
			c.Resend.MaxAttempts = 0
		}, wantErr: true},
		{name: "counter TTL under one cooldown", mutate: func(c *Config) {
			c.Resend.CounterTTL = c.Resend.Cooldown - time.Second
		}, wantErr: true},
		{name: "zero reset TTL", mutate: func(c *Config) {
			c.PasswordReset.TTL = 0
		}, wantErr: true},
		{name: "zero invite TTL", mutate: func(c *Config) {
			c.MentorInvite.TTL = 0
		}, wantErr: true},
		{name: "password minimum under eight", mutate: func(c *Config) {
			c.Password.MinLength = 7
		}, wantErr: true},
		{name: "counter TTL equal to cooldown", mutate: func(c *Config) {
			c.Resend.CounterTTL = c.Resend.Cooldown
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validTestConfig()
			tc.mutate(&cfg)
			err := cfg.validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected validation to fail")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("expected validation to pass, got %v", err)
			}
		})
	}
}
