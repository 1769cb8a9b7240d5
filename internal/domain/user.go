package domain

import "time"

// UserRole enumerates platform roles.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleUser    UserRole = "user"
	RoleViewer  UserRole = "viewer"
)

// Valid reports whether the role is a known value.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser, RoleViewer:
		return true
	}
	return false
}

// User is the domain model for platform accounts.
//
// PasswordHash, MFASecret and the reset token fields are owned by the
// credential store and must never appear in API responses.
type User struct {
	ID                   string
	Email                string
	PasswordHash         string
	FirstName            string
	LastName             string
	Role                 UserRole
	IsActive             bool
	EmailVerified        bool
	MFASecret            *string
	PasswordResetToken   *string
	PasswordResetExpires *time.Time
	LastLoginAt          *time.Time
	OrganizationID       *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
	DeletedAt            *time.Time
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
