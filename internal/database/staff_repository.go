package database

import (
	"database/sql"
	"fmt"

	"github.com/coopbus/ticketing-backend/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// StaffRepository handles staff member lookups for seller eligibility
type StaffRepository struct {
	db *sqlx.DB
}

// NewStaffRepository creates a new StaffRepository
func NewStaffRepository(db *sqlx.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// GetByIDTx returns an active tenant staff member inside the caller's
// transaction, or nil when absent
func (r *StaffRepository) GetByIDTx(tx *sqlx.Tx, staffID, tenantID uuid.UUID) (*models.StaffMember, error) {
	query := `
		SELECT id, tenant_id, first_name, last_name, role, active,
			   created_at, updated_at
		FROM staff_members
		WHERE id = $1 AND tenant_id = $2 AND active = true`

	var staff models.StaffMember
	err := tx.Get(&staff, query, staffID, tenantID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get staff member: %w", err)
	}

	return &staff, nil
}
