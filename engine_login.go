package zencode

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kannan-innovates/zenCode/session"
)

// Login authenticates an email/password pair and opens a refresh session.
// Unknown email, blocked account, missing password hash, and wrong
// password all fail with the same external reason so login cannot be used
// to enumerate accounts; the internal distinction is logged.
func (e *Engine) Login(ctx context.Context, email, plaintext string) (*TokenPair, error) {
	email = normalizeEmail(email)

	user, err := e.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		e.log.Debug("login rejected: unknown email", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}
	if user.IsBlocked {
		e.log.Debug("login rejected: blocked account", zap.String("userId", user.ID))
		return nil, ErrInvalidCredentials
	}
	if user.PasswordHash == "" {
		e.log.Debug("login rejected: no password set", zap.String("userId", user.ID))
		return nil, ErrInvalidCredentials
	}
	if !e.hasher.Compare(plaintext, user.PasswordHash) {
		e.log.Debug("login rejected: wrong password", zap.String("userId", user.ID))
		return nil, ErrInvalidCredentials
	}

	e.touchLastActive(ctx, user.ID)

	pair, err := e.tokens.IssuePair(user.ID, string(user.Role))
	if err != nil {
		return nil, wrap(ErrTokenIssueFailed, err)
	}
	if err := e.sessions.Bind(ctx, pair.RefreshTokenID, user.ID, e.config.JWT.RefreshTTL); err != nil {
		return nil, wrap(ErrCacheUnavailable, err)
	}

	e.log.Info("login succeeded", zap.String("userId", user.ID))

	return &TokenPair{
		AccessToken:    pair.AccessToken,
		RefreshToken:   pair.RefreshToken,
		RefreshTokenID: pair.RefreshTokenID,
	}, nil
}

// Refresh rotates a refresh session: it verifies the token's signature and
// class, requires its identifier to still resolve to the claimed subject,
// re-checks the account, and issues a brand-new pair. The old identifier
// stops resolving the moment the new one is bound, so a replayed refresh
// token fails unauthorized.
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := e.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, wrap(ErrUnauthorized, err)
	}

	userID, err := e.sessions.Resolve(ctx, claims.TokenID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, wrap(ErrCacheUnavailable, err)
	}
	// A mismatch means a forged subject claim over a stolen identifier;
	// indistinguishable from a revoked session on purpose.
	if userID != claims.Subject {
		e.log.Warn("refresh subject mismatch", zap.String("tokenId", claims.TokenID))
		return nil, ErrUnauthorized
	}

	user, err := e.findByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.IsBlocked {
		return nil, ErrUnauthorized
	}

	pair, err := e.tokens.IssuePair(user.ID, string(user.Role))
	if err != nil {
		return nil, wrap(ErrTokenIssueFailed, err)
	}
	if err := e.sessions.Rotate(ctx, claims.TokenID, pair.RefreshTokenID, user.ID, e.config.JWT.RefreshTTL); err != nil {
		// A vanished old binding means another refresh with the same token
		// won the race; the loser is treated as a replay.
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, wrap(ErrCacheUnavailable, err)
	}

	e.touchLastActive(ctx, user.ID)

	return &TokenPair{
		AccessToken:    pair.AccessToken,
		RefreshToken:   pair.RefreshToken,
		RefreshTokenID: pair.RefreshTokenID,
	}, nil
}

// Logout revokes the session bound to the refresh token. An invalid or
// expired token has nothing to revoke and is treated as success, making
// logout idempotent.
func (e *Engine) Logout(ctx context.Context, refreshToken string) error {
	claims, err := e.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil
	}
	if err := e.sessions.Revoke(ctx, claims.TokenID); err != nil {
		return wrap(ErrCacheUnavailable, err)
	}
	e.log.Info("logout", zap.String("userId", claims.Subject))
	return nil
}

// VerifyAccess decodes an access token for the request middleware.
func (e *Engine) VerifyAccess(token string) (*AccessInfo, error) {
	claims, err := e.tokens.ParseAccess(token)
	if err != nil {
		return nil, wrap(ErrUnauthorized, err)
	}
	return &AccessInfo{UserID: claims.Subject, Role: Role(claims.Role)}, nil
}

// touchLastActive records activity without blocking the flow; a failed
// touch is logged, not surfaced.
func (e *Engine) touchLastActive(ctx context.Context, userID string) {
	now := time.Now()
	if _, err := e.users.Update(ctx, userID, UserUpdate{LastActiveAt: &now}); err != nil {
		e.log.Warn("last-active update failed", zap.String("userId", userID), zap.Error(err))
	}
}
