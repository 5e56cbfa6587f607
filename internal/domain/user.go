package domain

import "time"

type UserRole string

const (
	RoleBuyer  UserRole = "buyer"
	RoleSeller UserRole = "seller"
	RoleAdmin  UserRole = "admin"
)

// UserMode is a user-settable UI preference. It never grants permissions;
// authorization is decided by Role and by verification status.
type UserMode string

const (
	ModeBuyer  UserMode = "buyer"
	ModeSeller UserMode = "seller"
)

type VerificationStatus string

const (
	VerificationUnverified    VerificationStatus = "unverified"
	VerificationPending       VerificationStatus = "pending"
	VerificationApproved      VerificationStatus = "approved"
	VerificationRejected      VerificationStatus = "rejected"
	VerificationNeedsRevision VerificationStatus = "needs_revision"
)

type User struct {
	ID           int64    `json:"id"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null" validate:"required,email"`
	PasswordHash string   `json:"-"`
	FullName     string   `json:"full_name"`
	Phone        string   `json:"phone,omitempty"`
	Role         UserRole `json:"role"`
	Mode         UserMode `json:"mode"`

	// VerificationStatus mirrors the user's latest VerificationRequest.
	// The request table stays the source of truth; this column exists so
	// listing checks and admin filters do not need a join.
	VerificationStatus VerificationStatus `json:"verification_status"`

	FailedLoginAttempts int        `json:"-"`
	LockedUntil         *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsVerifiedSeller reports whether the user may move a property past draft.
func (u *User) IsVerifiedSeller() bool {
	return u.VerificationStatus == VerificationApproved
}
