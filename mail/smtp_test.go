package mail

import "testing"

func TestFromDefaultsToUsername(t *testing.T) {
	s := NewSMTP(Config{Host: "smtp.test", Port: "465", Username: "bot@test"})
	if s.config.From != "bot@test" {
		t.Fatalf("From defaulted to %q, want the username", s.config.From)
	}

	s = NewSMTP(Config{Host: "smtp.test", Port: "465", Username: "bot@test", From: "no-reply@test"})
	if s.config.From != "no-reply@test" {
		t.Fatalf("explicit From overridden: %q", s.config.From)
	}
}

func TestAuthSkippedWithoutCredentials(t *testing.T) {
	// A local relay with no account must not be sent an AUTH command.
	s := NewSMTP(Config{Host: "localhost", Port: "1025", From: "dev@test"})
	if s.authEnabled() {
		t.Fatal("expected auth to be disabled without a username")
	}

	s = NewSMTP(Config{Host: "smtp.test", Port: "465", Username: "bot@test", Password: "pw"})
	if !s.authEnabled() {
		t.Fatal("expected auth to be enabled with a username")
	}
}
