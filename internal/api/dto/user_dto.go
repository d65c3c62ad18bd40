package dto

import (
	"time"

	"github.com/deskline/helpdesk-service/internal/domain"
)

// UserResponse is the public account shape; the password hash never
// leaves the service.
type UserResponse struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Role       domain.Role `json:"role"`
	Avatar     *string     `json:"avatar,omitempty"`
	Department *string     `json:"department,omitempty"`
	Phone      *string     `json:"phone,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// FromUser maps a domain user to its response shape.
func FromUser(user *domain.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		Avatar:     user.Avatar,
		Department: user.Department,
		Phone:      user.Phone,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}
