package domain

import (
	"fmt"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// ParseRole maps request input to a Role; empty input means RoleUser.
func ParseRole(raw string) (Role, error) {
	if raw == "" {
		return RoleUser, nil
	}
	role := Role(raw)
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return role, nil
}

// User is an account able to authenticate, either with email/password or with
// an external client id.
type User struct {
	ID           int64
	Email        *string
	ClientID     *string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the account carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UserInfo is the 1:1 profile attached to a user.
type UserInfo struct {
	ID           int64
	UserID       int64
	Name         string
	Age          *int
	Gender       *string
	ProfileImage *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserHistory records a single profile field change.
type UserHistory struct {
	ID           int64
	UserID       int64
	ChangedField string
	OldValue     string
	NewValue     string
	CreatedAt    time.Time
}
