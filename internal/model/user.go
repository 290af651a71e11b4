package model

import (
	"context"
	"strings"
	"time"
)

// Role restricts what a user can reach in the portal.
type Role string

const (
	RoleStudent    Role = "student"
	RoleResearcher Role = "researcher"
	RoleReviewer   Role = "reviewer"
	RoleProfessor  Role = "professor"
	RoleAdmin      Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleResearcher, RoleReviewer, RoleProfessor, RoleAdmin:
		return true
	}
	return false
}

// Requestable reports whether r may be asked for through the public
// account-request form. Admin accounts are only created by other admins.
func (r Role) Requestable() bool {
	return r.Valid() && r != RoleAdmin
}

// UserStore defines persistence operations for user records.
type UserStore interface {
	Create(ctx context.Context, email, rawPassword string, role Role) (User, error)
	Get(ctx context.Context, email string) (User, error)
	Update(ctx context.Context, email string, update UserUpdate) (User, error)
	ValidatePassword(ctx context.Context, email, rawPassword string) bool
	ChangePassword(ctx context.Context, email, newRawPassword string) error
	Delete(ctx context.Context, email string) error
	List(ctx context.Context) ([]User, error)
}

// User represents a stored user record. The email is the identifying
// key and is always lowercase on disk.
type User struct {
	Email            string     `json:"email"`
	PasswordHash     string     `json:"password_hash,omitempty"`
	Role             Role       `json:"role"`
	FirstLogin       bool       `json:"first_login"`
	ProfileCompleted bool       `json:"profile_completed"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	LastLogin        *time.Time `json:"last_login"`
}

// Sanitized returns a copy of the user without authentication material.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}

// UserUpdate describes a partial update of a user record. Only the
// fields listed here may be changed through Update; nil means unchanged.
type UserUpdate struct {
	PasswordHash     *string
	FirstLogin       *bool
	LastLogin        *time.Time
	ProfileCompleted *bool
}

// NormalizeEmail canonicalizes an identifying key. Every store method
// applies it so no code path can create a second record for the same
// address with different casing.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
