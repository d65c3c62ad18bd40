package dto

import (
	"time"

	"github.com/deskline/helpdesk-service/internal/domain"
)

// RegisterRequest payload.
type RegisterRequest struct {
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Password   string      `json:"password"`
	Role       domain.Role `json:"role"`
	Avatar     *string     `json:"avatar"`
	Department *string     `json:"department"`
	Phone      *string     `json:"phone"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse hands the claim to the presentation layer as an
// opaque token plus an explicit expiry instant.
type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthResponse couples the user with their session.
type AuthResponse struct {
	User    UserResponse    `json:"user"`
	Session SessionResponse `json:"session"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UpdateProfileRequest payload; omitted fields are left unchanged.
type UpdateProfileRequest struct {
	Name       *string `json:"name"`
	Avatar     *string `json:"avatar"`
	Department *string `json:"department"`
	Phone      *string `json:"phone"`
}
