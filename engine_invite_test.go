package zencode

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func createInvite(t *testing.T, env *testEnv, email string) string {
	t.Helper()
	err := env.engine.CreateMentorInvite(context.Background(), "admin-1", CreateMentorInput{
		FullName:        "Mentor M",
		Email:           email,
		Expertise:       []string{"go", "systems"},
		ExperienceLevel: "senior",
	})
	if err != nil {
		t.Fatalf("CreateMentorInvite error: %v", err)
	}

	link := env.mailer.last().Data["link"]
	idx := strings.Index(link, "token=")
	if idx < 0 {
		t.Fatalf("no token in invite link %q", link)
	}
	return link[idx+len("token="):]
}

func TestCreateMentorInvite(t *testing.T) {
	env := newTestEngine(t)
	ctx := context.Background()

	token := createInvite(t, env, "mentor@x.com")
	if token == "" {
		t.Fatal("expected invite token")
	}
	if env.mailer.last().Template != TemplateMentorInvite {
		t.Fatalf("expected invite template, got %s", env.mailer.last().Template)
	}

	user, err := env.users.FindByEmail(ctx, "mentor@x.com")
	if err != nil || user == nil {
		t.Fatalf("expected pre-created mentor record, got %v", err)
	}
	if user.Role != RoleMentor {
		t.Fatalf("expected mentor role, got %s", user.Role)
	}
	if user.PasswordHash != "" {
		t.Fatal("expected no password before activation")
	}
	if !user.MustChangePassword {
		t.Fatal("expected mustChangePassword=true")
	}
	if user.CreatedByAdminID != "admin-1" {
		t.Fatalf("expected creator reference, got %q", user.CreatedByAdminID)
	}
}

func TestCreateMentorInviteConflict(t *testing.T) {
	env := newTestEngine(t)
	registerUser(t, env, "taken@x.com", "pw123456")

	err := env.engine.CreateMentorInvite(context.Background(), "admin-1", CreateMentorInput{
		FullName: "Mentor M",
		Email:    "taken@x.com",
	})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestCreateMentorInviteValidation(t *testing.T) {
	env := newTestEngine(t)

	err := env.engine.CreateMentorInvite(context.Background(), "admin-1", CreateMentorInput{
		FullName:        "Mentor M",
		Email:           "m@x.com",
		ExperienceLevel: "wizard",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad experience level, got %v", err)
	}
}

func TestActivateMentorScenario(t *testing.T) {
	env := newTestEngine(t)
	ctx := context.Background()
	token := createInvite(t, env, "mentor@x.com")

	// Mismatched passwords are rejected before anything is consumed.
	err := env.engine.ActivateMentor(ctx, token, "longenough1", "different1")
	if !errors.Is(err, ErrPasswordsDoNotMatch) {
		t.Fatalf("expected ErrPasswordsDoNotMatch, got %v", err)
	}

	err = env.engine.ActivateMentor(ctx, token, "short", "short")
	if !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}

	if err := env.engine.ActivateMentor(ctx, token, "longenough1", "longenough1"); err != nil {
		t.Fatalf("ActivateMentor error: %v", err)
	}

	user, err := env.users.FindByEmail(ctx, "mentor@x.com")
	if err != nil || user == nil {
		t.Fatalf("mentor not found: %v", err)
	}
	if !user.IsEmailVerified {
		t.Fatal("expected isEmailVerified=true after activation")
	}
	if user.MustChangePassword {
		t.Fatal("expected mustChangePassword=false after activation")
	}
	if user.PasswordHash == "" {
		t.Fatal("expected password hash to be set")
	}

	// The invite token no longer resolves.
	if err := env.engine.ActivateMentor(ctx, token, "longenough1", "longenough1"); !errors.Is(err, ErrInvalidInvite) {
		t.Fatalf("expected consumed invite to fail, got %v", err)
	}

	// And the mentor can now log in.
	if _, err := env.engine.Login(ctx, "mentor@x.com", "longenough1"); err != nil {
		t.Fatalf("mentor login error: %v", err)
	}
}

func TestActivateMentorExpiredInvite(t *testing.T) {
	env := newTestEngine(t)
	ctx := context.Background()
	token := createInvite(t, env, "mentor@x.com")

	env.mini.FastForward(env.engine.config.MentorInvite.TTL + 1)

	err := env.engine.ActivateMentor(ctx, token, "longenough1", "longenough1")
	if !errors.Is(err, ErrInvalidInvite) {
		t.Fatalf("expected ErrInvalidInvite after expiry, got %v", err)
	}
}

func TestActivateMentorAlreadyActivated(t *testing.T) {
	env := newTestEngine(t)
	ctx := context.Background()
	token := createInvite(t, env, "mentor@x.com")

	if err := env.engine.ActivateMentor(ctx, token, "longenough1", "longenough1"); err != nil {
		t.Fatalf("ActivateMentor error: %v", err)
	}

	// Simulate a second live invite pointing at the activated account.
	if err := env.engine.invites.Save(ctx, "stale-token", "mentor@x.com", env.engine.config.MentorInvite.TTL); err != nil {
		t.Fatalf("invite save error: %v", err)
	}
	err := env.engine.ActivateMentor(ctx, "stale-token", "longenough1", "longenough1")
	if !errors.Is(err, ErrAlreadyActivated) {
		t.Fatalf("expected ErrAlreadyActivated, got %v", err)
	}
}
