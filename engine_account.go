package zencode

import (
	"context"

	"go.uber.org/zap"
)

// BlockUser flags an account as blocked. Blocked accounts fail login and
// refresh; live access tokens lapse at their own short TTL.
func (e *Engine) BlockUser(ctx context.Context, userID string) error {
	return e.setBlocked(ctx, userID, true)
}

// UnblockUser clears the blocked flag.
func (e *Engine) UnblockUser(ctx context.Context, userID string) error {
	return e.setBlocked(ctx, userID, false)
}

func (e *Engine) setBlocked(ctx context.Context, userID string, blocked bool) error {
	if userID == "" {
		return ErrInvalidInput
	}

	user, err := e.findByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if _, err := e.users.Update(ctx, user.ID, UserUpdate{IsBlocked: &blocked}); err != nil {
		return wrap(ErrStoreUnavailable, err)
	}

	e.log.Info("account block flag changed",
		zap.String("userId", user.ID),
		zap.Bool("blocked", blocked),
	)
	return nil
}
