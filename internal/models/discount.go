package models

import (
	"time"

	"github.com/google/uuid"
)

// DiscountCategory identifies a passenger discount category
type DiscountCategory string

const (
	DiscountCategoryNone       DiscountCategory = "none"
	DiscountCategoryMinor      DiscountCategory = "minor"
	DiscountCategorySenior     DiscountCategory = "senior"
	DiscountCategoryDisability DiscountCategory = "disability"
)

// DiscountRule maps a discount category to a configured percentage per tenant
type DiscountRule struct {
	ID                 uuid.UUID        `json:"id" db:"id"`
	TenantID           uuid.UUID        `json:"tenant_id" db:"tenant_id"`
	Category           DiscountCategory `json:"category" db:"category"`
	Percentage         float64          `json:"percentage" db:"percentage"`
	RequiresValidation bool             `json:"requires_validation" db:"requires_validation"`
	Active             bool             `json:"active" db:"active"`
	CreatedAt          time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at" db:"updated_at"`
}

// DiscountResult is the outcome of computing the best discount for a client
type DiscountResult struct {
	Category           DiscountCategory `json:"category"`
	Percentage         float64          `json:"percentage"`
	RequiresValidation bool             `json:"requires_validation"`
	Description        string           `json:"description"`
}

// DiscountValidation is the outcome of re-deriving eligibility from raw
// client attributes, independent of the percentage lookup
type DiscountValidation struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}
