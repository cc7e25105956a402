package zencode

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kannan-innovates/zenCode/jwt"
	"github.com/kannan-innovates/zenCode/password"
	"github.com/kannan-innovates/zenCode/session"
)

// Engine orchestrates the five credential journeys: registration, login,
// refresh/logout, password reset, and mentor invite activation. It holds
// no mutable in-process state; all shared state lives in Redis and the
// UserStore. Construct through [Builder.Build], after which all methods
// are safe for concurrent use.
type Engine struct {
	config   Config
	log      *zap.Logger
	users    UserStore
	mailer   Mailer
	hasher   *password.Argon2
	tokens   *jwt.Manager
	sessions *session.Store
	otp      *otpStore
	resend   *resendLimiter
	resets   *resetStore
	invites  *inviteStore
}

// RefreshTTL exposes the refresh-token lifetime so the transport layer can
// align cookie expiry with session expiry.
func (e *Engine) RefreshTTL() time.Duration {
	return e.config.JWT.RefreshTTL
}

// normalizeEmail lowercases and trims so every cache key and store lookup
// addresses the same identity.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// sendMail delivers tmpl and maps failure to the dependency-failure kind.
// Callers invoke it as the final step of a flow: on failure the committed
// state is kept, because re-requesting a code or link overwrites it safely.
func (e *Engine) sendMail(ctx context.Context, to string, tmpl Template, data map[string]string) error {
	if err := e.mailer.Send(ctx, to, tmpl, data); err != nil {
		e.log.Warn("mail delivery failed",
			zap.String("template", string(tmpl)),
			zap.Error(err),
		)
		return wrap(ErrMailSendFailed, err)
	}
	return nil
}

// findByEmail wraps store failures in the dependency-failure kind.
func (e *Engine) findByEmail(ctx context.Context, email string) (*User, error) {
	user, err := e.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, wrap(ErrStoreUnavailable, err)
	}
	return user, nil
}

func (e *Engine) findByID(ctx context.Context, id string) (*User, error) {
	user, err := e.users.FindByID(ctx, id)
	if err != nil {
		return nil, wrap(ErrStoreUnavailable, err)
	}
	return user, nil
}
