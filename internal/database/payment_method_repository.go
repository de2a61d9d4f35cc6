package database

import (
	"database/sql"
	"fmt"

	"github.com/coopbus/ticketing-backend/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PaymentMethodRepository handles payment method lookups
type PaymentMethodRepository struct {
	db *sqlx.DB
}

// NewPaymentMethodRepository creates a new PaymentMethodRepository
func NewPaymentMethodRepository(db *sqlx.DB) *PaymentMethodRepository {
	return &PaymentMethodRepository{db: db}
}

// GetByIDTx returns an active tenant payment method inside the caller's
// transaction, or nil when absent
func (r *PaymentMethodRepository) GetByIDTx(tx *sqlx.Tx, methodID, tenantID uuid.UUID) (*models.PaymentMethod, error) {
	query := `
		SELECT id, tenant_id, name, active, created_at, updated_at
		FROM payment_methods
		WHERE id = $1 AND tenant_id = $2 AND active = true`

	var method models.PaymentMethod
	err := tx.Get(&method, query, methodID, tenantID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment method: %w", err)
	}

	return &method, nil
}
