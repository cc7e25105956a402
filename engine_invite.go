package zencode

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateMentorInput is the validated shape of an admin's mentor invite.
// ExperienceLevel, when present, must be one of junior, mid, senior.
type CreateMentorInput struct {
	FullName        string
	Email           string
	Expertise       []string
	ExperienceLevel string
}

func validExperienceLevel(level string) bool {
	switch level {
	case "", "junior", "mid", "senior":
		return true
	}
	return false
}

// CreateMentorInvite pre-creates a mentor identity with no password and
// must-change-password set, stores an invite token for the activation
// window, and mails the activation link.
func (e *Engine) CreateMentorInvite(ctx context.Context, adminID string, in CreateMentorInput) error {
	email := normalizeEmail(in.Email)
	if in.FullName == "" || email == "" {
		return ErrInvalidInput
	}
	if !validExperienceLevel(in.ExperienceLevel) {
		return ErrInvalidInput
	}

	existing, err := e.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrEmailExists
	}

	token := uuid.NewString()
	if err := e.invites.Save(ctx, token, email, e.config.MentorInvite.TTL); err != nil {
		return wrap(ErrCacheUnavailable, err)
	}

	_, err = e.users.Create(ctx, NewUser{
		FullName:           in.FullName,
		Email:              email,
		Role:               RoleMentor,
		MustChangePassword: true,
		Expertise:          in.Expertise,
		ExperienceLevel:    in.ExperienceLevel,
		CreatedByAdminID:   adminID,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return ErrEmailExists
		}
		return wrap(ErrStoreUnavailable, err)
	}

	e.log.Info("mentor invite created",
		zap.String("email", email),
		zap.String("adminId", adminID),
	)

	link := e.config.FrontendURL + "/mentor/activate?token=" + token
	return e.sendMail(ctx, email, TemplateMentorInvite, map[string]string{
		"fullName":  in.FullName,
		"link":      link,
		"expiresIn": "24 hours",
	})
}

// ActivateMentor completes the one-time password-set step gated by the
// invite token: it persists the password, marks the email verified, clears
// must-change-password, and consumes the invite.
func (e *Engine) ActivateMentor(ctx context.Context, token, plaintext, confirm string) error {
	if token == "" {
		return ErrInvalidInvite
	}
	if plaintext != confirm {
		return ErrPasswordsDoNotMatch
	}
	if len(plaintext) < e.config.Password.MinLength {
		return ErrPasswordTooShort
	}

	email, err := e.invites.Lookup(ctx, token)
	if err != nil {
		return wrap(ErrCacheUnavailable, err)
	}
	if email == "" {
		return ErrInvalidInvite
	}

	user, err := e.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrMentorNotFound
	}
	if user.IsEmailVerified {
		return ErrAlreadyActivated
	}

	digest, err := e.hasher.Hash(plaintext)
	if err != nil {
		return wrap(ErrStoreUnavailable, err)
	}

	verified := true
	mustChange := false
	_, err = e.users.Update(ctx, user.ID, UserUpdate{
		PasswordHash:       &digest,
		IsEmailVerified:    &verified,
		MustChangePassword: &mustChange,
	})
	if err != nil {
		return wrap(ErrStoreUnavailable, err)
	}

	if err := e.invites.Delete(ctx, token); err != nil {
		e.log.Warn("invite token cleanup failed", zap.String("email", email), zap.Error(err))
	}

	e.log.Info("mentor activated", zap.String("userId", user.ID))
	return nil
}
