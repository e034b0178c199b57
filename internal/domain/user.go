package domain

import "time"

// Role names a capability grant attached to a user identity. Grants live in
// the user_roles table and are checked server-side, never trusted from
// client state.
type Role string

const (
	RoleAdmin Role = "admin"
)

// User is an authenticated identity for the admin surface.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
