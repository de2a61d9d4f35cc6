package models

import (
	"time"

	"github.com/google/uuid"
)

// StaffRole is the operational role of a tenant staff member
type StaffRole string

const (
	StaffRoleSeller    StaffRole = "seller"
	StaffRoleDriver    StaffRole = "driver"
	StaffRoleConductor StaffRole = "conductor"
	StaffRoleAdmin     StaffRole = "admin"
)

// CanSell reports whether the role is eligible to be attached to a sale
func (r StaffRole) CanSell() bool {
	return r == StaffRoleSeller || r == StaffRoleAdmin
}

// StaffMember is a tenant employee optionally recorded against a sale
type StaffMember struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TenantID  uuid.UUID `json:"tenant_id" db:"tenant_id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Role      StaffRole `json:"role" db:"role"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
