package domain

import (
	"strings"
	"time"
)

// StaffRole enumerates internal operator roles.
type StaffRole string

const (
	StaffRoleTechnician StaffRole = "TECHNICIAN"
	StaffRoleCRM        StaffRole = "CRM"
	StaffRoleAdmin      StaffRole = "ADMIN"
)

// StaffMember models a technician or back-office operator.
type StaffMember struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         StaffRole
	PushToken    *string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName renders the human-readable staff name.
func (s StaffMember) DisplayName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}
