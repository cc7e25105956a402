package zencode

import (
	"context"
	"errors"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	// RoleCandidate is the default role assigned on self-registration.
	RoleCandidate Role = "candidate"
	// RoleMentor is the privileged role created by admin invite.
	RoleMentor Role = "mentor"
	// RoleAdmin gates the admin HTTP surface.
	RoleAdmin Role = "admin"
)

// ValidRole reports whether r is one of the closed role set.
func ValidRole(r Role) bool {
	switch r {
	case RoleCandidate, RoleMentor, RoleAdmin:
		return true
	}
	return false
}

// User is a durable identity record. PasswordHash is empty until ownership
// of the email has been proven by OTP or invite token.
type User struct {
	ID                 string
	FullName           string
	Email              string
	PasswordHash       string
	Role               Role
	IsBlocked          bool
	IsEmailVerified    bool
	MustChangePassword bool
	Expertise          []string
	ExperienceLevel    string
	CreatedByAdminID   string
	LastActiveAt       time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewUser carries the fields for creating a durable identity record.
type NewUser struct {
	FullName           string
	Email              string
	PasswordHash       string
	Role               Role
	IsEmailVerified    bool
	MustChangePassword bool
	Expertise          []string
	ExperienceLevel    string
	CreatedByAdminID   string
}

// UserUpdate is an explicit partial update: only non-nil fields are written.
// The engine always fetches, computes new fields, and calls Update; it never
// mutates a fetched record in place.
type UserUpdate struct {
	PasswordHash       *string
	IsBlocked          *bool
	IsEmailVerified    *bool
	MustChangePassword *bool
	LastActiveAt       *time.Time
}

// ErrDuplicateEmail is returned by UserStore.Create when the storage-layer
// unique index rejects the email. It is the backstop against registration
// races that pass the read-then-write pre-check.
var ErrDuplicateEmail = errors.New("duplicate email")

// UserStore is the durable identity store the engine consumes. Lookups
// return (nil, nil) when no record matches. Implementations must enforce
// email uniqueness at the storage layer.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, u NewUser) (*User, error)
	Update(ctx context.Context, id string, upd UserUpdate) (*User, error)
}

// Template identifies an outbound mail template.
type Template string

const (
	// TemplateOTP carries a registration verification code.
	TemplateOTP Template = "otp"
	// TemplatePasswordReset carries a reset link with the raw token.
	TemplatePasswordReset Template = "password-reset"
	// TemplateMentorInvite carries a mentor activation link.
	TemplateMentorInvite Template = "mentor-invite"
)

// Mailer delivers a templated message. The engine treats it as
// fire-and-forget except for propagating failure.
type Mailer interface {
	Send(ctx context.Context, to string, tmpl Template, data map[string]string) error
}

// TokenPair is the result of a successful login or refresh.
// RefreshTokenID is the random identifier bound in the session registry;
// it is carried inside RefreshToken but exposed for callers that log or
// test rotation.
type TokenPair struct {
	AccessToken    string
	RefreshToken   string
	RefreshTokenID string
}

// AccessInfo is the decoded identity of a verified access token.
type AccessInfo struct {
	UserID string
	Role   Role
}
