package zencode

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// StartRegistrationInput is the payload of a registration attempt.
type StartRegistrationInput struct {
	FullName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// StartRegistration opens the pending-verification window: it validates
// input, rejects emails that already have a durable identity, stores a
// fresh code and the pending payload, and mails the code. No durable
// record is written until the code is verified.
func (e *Engine) StartRegistration(ctx context.Context, in StartRegistrationInput) error {
	email := normalizeEmail(in.Email)
	if in.FullName == "" || email == "" {
		return ErrInvalidInput
	}
	if in.Password != in.ConfirmPassword {
		return ErrPasswordsDoNotMatch
	}
	if len(in.Password) < e.config.Password.MinLength {
		return ErrPasswordTooShort
	}

	existing, err := e.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrEmailExists
	}

	code, err := e.otp.Generate()
	if err != nil {
		return wrap(ErrCacheUnavailable, err)
	}
	if err := e.otp.Store(ctx, email, code, e.config.OTP.TTL); err != nil {
		return wrap(ErrCacheUnavailable, err)
	}

	// Re-registration overwrites any live pending payload for the email.
	pending := pendingRegistration{
		FullName: in.FullName,
		Email:    email,
		Password: in.Password,
	}
	if err := e.otp.SavePending(ctx, email, pending, e.config.OTP.TTL); err != nil {
		return wrap(ErrCacheUnavailable, err)
	}

	e.log.Info("registration started", zap.String("email", email))

	return e.sendMail(ctx, email, TemplateOTP, map[string]string{
		"otp":       code,
		"expiresIn": "5 minutes",
	})
}

// ResendOTP re-issues a code for a pending registration, subject to the
// cooldown and attempt-budget policy. The caller does not resubmit
// registration data; the buffered payload is reused.
func (e *Engine) ResendOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return ErrInvalidInput
	}

	pending, err := e.otp.Pending(ctx, email)
	if err != nil {
		return wrap(ErrCacheUnavailable, err)
	}
	if pending == nil {
		return ErrRegistrationNotFound
	}

	if err := e.resend.CheckAndRecord(ctx, email); err != nil {
		return err
	}

	code, err := e.otp.Generate()
	if err != nil {
		return wrap(ErrCacheUnavailable, err)
	}
	if err := e.otp.Store(ctx, email, code, e.config.OTP.TTL); err != nil {
		return wrap(ErrCacheUnavailable, err)
	}

	e.log.Info("otp resent", zap.String("email", email))

	return e.sendMail(ctx, email, TemplateOTP, map[string]string{
		"otp":       code,
		"expiresIn": "5 minutes",
	})
}

// VerifyRegistration consumes the code and, on success, turns the pending
// payload into a durable identity record with the default role and a
// verified email. The code is single-use: a second verification with the
// same code fails.
func (e *Engine) VerifyRegistration(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)
	if email == "" || code == "" {
		return ErrInvalidInput
	}

	ok, err := e.otp.Verify(ctx, email, code)
	if err != nil {
		return wrap(ErrCacheUnavailable, err)
	}
	if !ok {
		return ErrInvalidOTP
	}

	pending, err := e.otp.Pending(ctx, email)
	if err != nil {
		return wrap(ErrCacheUnavailable, err)
	}
	if pending == nil {
		// The payload's TTL lapsed even though the code's had not. Both
		// share a nominal TTL, but skew is not assumed impossible.
		return ErrRegistrationExpired
	}

	digest, err := e.hasher.Hash(pending.Password)
	if err != nil {
		return wrap(ErrStoreUnavailable, err)
	}

	_, err = e.users.Create(ctx, NewUser{
		FullName:        pending.FullName,
		Email:           email,
		PasswordHash:    digest,
		Role:            RoleCandidate,
		IsEmailVerified: true,
	})
	if err != nil {
		// The store's unique index is the backstop against racing
		// registrations that both passed the pre-check.
		if errors.Is(err, ErrDuplicateEmail) {
			return ErrEmailExists
		}
		return wrap(ErrStoreUnavailable, err)
	}

	if err := e.otp.ClearPending(ctx, email); err != nil {
		e.log.Warn("pending registration cleanup failed", zap.String("email", email), zap.Error(err))
	}

	e.log.Info("registration completed", zap.String("email", email))
	return nil
}
