package zencode

import (
	"context"

	"go.uber.org/zap"

	"github.com/kannan-innovates/zenCode/internal/random"
)

// ForgotPassword mints a single-use reset token for the account and mails
// it as a link. For unknown or blocked emails it does nothing and still
// reports success: the caller learns nothing about account existence.
func (e *Engine) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return ErrInvalidInput
	}

	user, err := e.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil || user.IsBlocked {
		e.log.Debug("forgot-password on ineligible email", zap.String("email", email))
		return nil
	}

	raw, err := random.ResetToken()
	if err != nil {
		return wrap(ErrCacheUnavailable, err)
	}

	// Only the hash touches the cache; a cache read never exposes a
	// usable token.
	if err := e.resets.Save(ctx, random.HashToken(raw), user.ID, e.config.PasswordReset.TTL); err != nil {
		return wrap(ErrCacheUnavailable, err)
	}

	link := e.config.FrontendURL + "/reset-password?token=" + raw
	return e.sendMail(ctx, user.Email, TemplatePasswordReset, map[string]string{
		"link":      link,
		"expiresIn": "15 minutes",
	})
}

// ResetPassword consumes a reset token and persists the new password.
// Unknown, expired, and already-consumed tokens fail identically.
func (e *Engine) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	if rawToken == "" {
		return ErrInvalidResetToken
	}
	if len(newPassword) < e.config.Password.MinLength {
		return ErrPasswordTooShort
	}

	hashed := random.HashToken(rawToken)

	userID, err := e.resets.Lookup(ctx, hashed)
	if err != nil {
		return wrap(ErrCacheUnavailable, err)
	}
	if userID == "" {
		return ErrInvalidResetToken
	}

	user, err := e.findByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidResetToken
	}

	digest, err := e.hasher.Hash(newPassword)
	if err != nil {
		return wrap(ErrStoreUnavailable, err)
	}
	if _, err := e.users.Update(ctx, user.ID, UserUpdate{PasswordHash: &digest}); err != nil {
		return wrap(ErrStoreUnavailable, err)
	}

	if err := e.resets.Delete(ctx, hashed); err != nil {
		e.log.Warn("reset token cleanup failed", zap.String("userId", user.ID), zap.Error(err))
	}

	e.log.Info("password reset", zap.String("userId", user.ID))
	return nil
}

// ValidateResetToken reports whether the token would currently be accepted,
// without consuming it. The client uses it to show "link valid" before
// rendering the form.
func (e *Engine) ValidateResetToken(ctx context.Context, rawToken string) (bool, error) {
	if rawToken == "" {
		return false, nil
	}
	userID, err := e.resets.Lookup(ctx, random.HashToken(rawToken))
	if err != nil {
		return false, wrap(ErrCacheUnavailable, err)
	}
	return userID != "", nil
}
