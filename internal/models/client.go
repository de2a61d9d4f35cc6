package models

import (
	"time"

	"github.com/google/uuid"
)

// Client is a passenger record as supplied by the client directory
type Client struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	TenantID          uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	FirstName         string     `json:"first_name" db:"first_name"`
	LastName          string     `json:"last_name" db:"last_name"`
	DocumentNumber    string     `json:"document_number" db:"document_number"`
	BirthDate         *time.Time `json:"birth_date,omitempty" db:"birth_date"`
	Disabled          bool       `json:"disabled" db:"disabled"`
	DisabilityPercent *int       `json:"disability_percent,omitempty" db:"disability_percent"`
	Active            bool       `json:"active" db:"active"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// FullName returns the client's display name for error messages
func (c *Client) FullName() string {
	return c.FirstName + " " + c.LastName
}

// AgeAt computes the client's age at the given date using calendar-aware
// subtraction: the year difference is decremented when the month/day has not
// been reached yet. Returns -1 when the birth date is unknown.
func (c *Client) AgeAt(now time.Time) int {
	if c.BirthDate == nil {
		return -1
	}
	birth := *c.BirthDate
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}
