package database

import (
	"database/sql"
	"fmt"

	"github.com/coopbus/ticketing-backend/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ClientRepository handles passenger directory lookups
type ClientRepository struct {
	db *sqlx.DB
}

// NewClientRepository creates a new ClientRepository
func NewClientRepository(db *sqlx.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// GetByID returns a client owned by the tenant, or nil when absent
func (r *ClientRepository) GetByID(clientID, tenantID uuid.UUID) (*models.Client, error) {
	query := `
		SELECT id, tenant_id, first_name, last_name, document_number, birth_date,
			   disabled, disability_percent, active, created_at, updated_at
		FROM clients
		WHERE id = $1 AND tenant_id = $2`

	var client models.Client
	err := r.db.Get(&client, query, clientID, tenantID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	return &client, nil
}
