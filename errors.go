package zencode

// Kind classifies an engine failure. The HTTP boundary decodes it exactly
// once into a status code; the engine itself never deals in statuses.
type Kind uint8

const (
	// KindValidation marks malformed input, caught before any state mutation.
	KindValidation Kind = iota + 1
	// KindConflict marks duplicate-email and already-activated failures.
	KindConflict
	// KindNotFound marks unknown users, tokens, or pending registrations.
	KindNotFound
	// KindUnauthorized marks bad credentials and invalid, expired, or
	// revoked tokens.
	KindUnauthorized
	// KindForbidden marks blocked accounts and role-gate rejections.
	KindForbidden
	// KindRateLimited marks cooldown and attempt-budget rejections.
	KindRateLimited
	// KindUnavailable marks dependency failures: mail delivery, Redis or
	// user-store outages.
	KindUnavailable
)

// Error is the tagged failure type every engine operation returns.
// Message is user-facing; the wrapped cause, if any, is not.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches two Errors by kind and message so that a wrapped instance
// still satisfies errors.Is against its sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Message == e.Message
}

// wrap attaches a cause to a sentinel without mutating it.
func wrap(base *Error, cause error) *Error {
	return &Error{Kind: base.Kind, Message: base.Message, cause: cause}
}

var (
	// ErrPasswordsDoNotMatch is returned when password and confirmation differ.
	ErrPasswordsDoNotMatch = &Error{Kind: KindValidation, Message: "Passwords do not match"}
	// ErrPasswordTooShort is returned when a password is under the configured minimum.
	ErrPasswordTooShort = &Error{Kind: KindValidation, Message: "Password must be at least 8 characters"}
	// ErrInvalidInput is returned for missing or malformed request fields.
	ErrInvalidInput = &Error{Kind: KindValidation, Message: "Invalid input"}
	// ErrEmailExists is returned when a durable identity already owns the email.
	ErrEmailExists = &Error{Kind: KindConflict, Message: "Email already registered"}
	// ErrAlreadyActivated is returned when an invited account has already set a password.
	ErrAlreadyActivated = &Error{Kind: KindConflict, Message: "Account already activated"}
	// ErrUserNotFound is returned when a durable identity lookup misses.
	ErrUserNotFound = &Error{Kind: KindNotFound, Message: "User not found"}
	// ErrMentorNotFound is returned when an invite resolves to no identity record.
	ErrMentorNotFound = &Error{Kind: KindNotFound, Message: "Mentor account not found"}
	// ErrRegistrationNotFound is returned when a resend finds no pending registration.
	ErrRegistrationNotFound = &Error{Kind: KindNotFound, Message: "No pending registration found"}
	// ErrRegistrationExpired is returned when the pending payload lapsed even
	// though the code verified. Both share a nominal TTL, but clock or
	// storage skew is not assumed impossible.
	ErrRegistrationExpired = &Error{Kind: KindNotFound, Message: "Registration data expired"}
	// ErrInvalidCredentials covers unknown email, missing password hash, and
	// wrong password alike so login failures do not enumerate accounts.
	ErrInvalidCredentials = &Error{Kind: KindUnauthorized, Message: "Invalid email or password"}
	// ErrInvalidOTP covers absent, expired, and mismatched codes alike.
	ErrInvalidOTP = &Error{Kind: KindUnauthorized, Message: "Invalid or expired OTP"}
	// ErrUnauthorized is returned for invalid, expired, forged, or revoked tokens.
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Message: "Unauthorized access"}
	// ErrInvalidResetToken is returned for unknown, expired, or consumed reset tokens.
	ErrInvalidResetToken = &Error{Kind: KindUnauthorized, Message: "Invalid or expired token"}
	// ErrInvalidInvite is returned for unknown or expired mentor invite tokens.
	ErrInvalidInvite = &Error{Kind: KindUnauthorized, Message: "Invalid or expired invite link"}
	// ErrUserBlocked is returned when a blocked account attempts an operation
	// that discloses its state.
	ErrUserBlocked = &Error{Kind: KindForbidden, Message: "Your account has been blocked. Contact support."}
	// ErrForbidden is returned by the role gate.
	ErrForbidden = &Error{Kind: KindForbidden, Message: "Forbidden"}
	// ErrCooldownActive is returned when a resend arrives inside the cooldown window.
	ErrCooldownActive = &Error{Kind: KindRateLimited, Message: "Please wait before requesting another code"}
	// ErrResendLimitExceeded is returned when the resend attempt budget is spent.
	ErrResendLimitExceeded = &Error{Kind: KindRateLimited, Message: "Maximum retry attempts reached. Please try again later."}
	// ErrMailSendFailed surfaces mail delivery failure as a distinct kind.
	// State committed before the send is kept; re-requesting a code or link
	// overwrites it safely.
	ErrMailSendFailed = &Error{Kind: KindUnavailable, Message: "Failed to send email"}
	// ErrTokenIssueFailed surfaces signing failures from the token issuer.
	ErrTokenIssueFailed = &Error{Kind: KindUnavailable, Message: "Service temporarily unavailable"}
	// ErrCacheUnavailable surfaces Redis failures.
	ErrCacheUnavailable = &Error{Kind: KindUnavailable, Message: "Service temporarily unavailable"}
	// ErrStoreUnavailable surfaces user-store failures.
	ErrStoreUnavailable = &Error{Kind: KindUnavailable, Message: "Service temporarily unavailable"}
)
