package dto

import (
	"time"

	"github.com/spec-kit/field-service/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	StaffID   string           `json:"staff_id"`
	Name      string           `json:"name"`
	Role      domain.StaffRole `json:"role"`
}

// CreateStaffRequest payload.
type CreateStaffRequest struct {
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	Email     string           `json:"email"`
	Password  string           `json:"password"`
	Role      domain.StaffRole `json:"role"`
	PushToken *string          `json:"push_token"`
}

// StaffResponse renders a staff account without credentials.
type StaffResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Role      domain.StaffRole `json:"role"`
	Active    bool             `json:"active"`
	CreatedAt time.Time        `json:"created_at"`
}
