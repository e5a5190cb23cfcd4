package dto

import (
	"time"

	"github.com/spec-kit/event-booking/internal/domain"
)

// SessionExchangeRequest payload for the OAuth session exchange.
type SessionExchangeRequest struct {
	SessionID string `json:"session_id"`
}

// RoleSelectRequest payload for a user's own role selection.
type RoleSelectRequest struct {
	Role string `json:"role"`
}

// UserResponse is the canonical user representation.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   *string   `json:"picture,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Picture:   u.Picture,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}
