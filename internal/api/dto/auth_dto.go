package dto

import "time"

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the issued token.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionUser is the identity slice exposed to the admin UI.
type SessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// SessionResponse is the guard snapshot for the admin UI.
type SessionResponse struct {
	User    *SessionUser `json:"user"`
	IsAdmin bool         `json:"is_admin"`
	Loading bool         `json:"loading"`
}

// PasswordChangeRequest payload for authenticated password changes.
type PasswordChangeRequest struct {
	NewPassword string `json:"new_password"`
}
