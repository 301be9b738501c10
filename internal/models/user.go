package models

import (
	"time"

	"github.com/google/uuid"
)

// Role distinguishes the foreman (admin) account from ordinary members.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User represents a chit fund participant. Ordinary members have no
// login; only the foreman carries an email and password hash.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Name is the display name of the user.
	Name string

	// Phone is the member's contact number.
	Phone string

	// Email is set only for accounts that can log in (unique when set).
	Email string

	// PasswordHash is the bcrypt hash of the login password; empty for
	// members without a login.
	PasswordHash string

	// Role is RoleAdmin for the foreman, RoleUser otherwise.
	Role Role

	// TelegramID is the optional chat ID for outbound notifications.
	// A user with an empty TelegramID is silently skipped by fan-outs.
	TelegramID string

	// CreatedAt is the Unix timestamp when the user was created.
	CreatedAt int64
}

// NewUser creates a member with a fresh ID and creation timestamp.
func NewUser(name, phone string) *User {
	return &User{
		ID:        uuid.New().String(),
		Name:      name,
		Phone:     phone,
		Role:      RoleUser,
		CreatedAt: time.Now().Unix(),
	}
}
