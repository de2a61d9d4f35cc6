package database

import (
	"fmt"

	"github.com/coopbus/ticketing-backend/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// DiscountRuleRepository handles tenant discount configuration lookups
type DiscountRuleRepository struct {
	db *sqlx.DB
}

// NewDiscountRuleRepository creates a new DiscountRuleRepository
func NewDiscountRuleRepository(db *sqlx.DB) *DiscountRuleRepository {
	return &DiscountRuleRepository{db: db}
}

// ListActive returns the tenant's active discount rules
func (r *DiscountRuleRepository) ListActive(tenantID uuid.UUID) ([]models.DiscountRule, error) {
	query := `
		SELECT id, tenant_id, category, percentage, requires_validation, active,
			   created_at, updated_at
		FROM discount_rules
		WHERE tenant_id = $1 AND active = true
		ORDER BY category`

	var rules []models.DiscountRule
	if err := r.db.Select(&rules, query, tenantID); err != nil {
		return nil, fmt.Errorf("failed to list discount rules: %w", err)
	}

	return rules, nil
}
