package database

import (
	"database/sql"
	"fmt"

	"github.com/coopbus/ticketing-backend/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// TripRepository handles trip database operations.
// Every query is tenant-scoped through an explicit tenantID argument.
type TripRepository struct {
	db *sqlx.DB
}

// NewTripRepository creates a new TripRepository
func NewTripRepository(db *sqlx.DB) *TripRepository {
	return &TripRepository{db: db}
}

const tripColumns = `id, tenant_id, route_id, bus_id, departure_at, capacity,
	   occupied_seats, status, created_at, updated_at`

// GetByID returns a trip owned by the tenant, or nil when absent
func (r *TripRepository) GetByID(tripID, tenantID uuid.UUID) (*models.Trip, error) {
	query := fmt.Sprintf(`SELECT %s FROM trips WHERE id = $1 AND tenant_id = $2`, tripColumns)

	var trip models.Trip
	err := r.db.Get(&trip, query, tripID, tenantID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	return &trip, nil
}

// GetByIDTx re-reads the trip inside the sale transaction. Tenant data may
// have changed since phase 1, so phase 2 never trusts earlier reads.
func (r *TripRepository) GetByIDTx(tx *sqlx.Tx, tripID, tenantID uuid.UUID) (*models.Trip, error) {
	query := fmt.Sprintf(`SELECT %s FROM trips WHERE id = $1 AND tenant_id = $2`, tripColumns)

	var trip models.Trip
	err := tx.Get(&trip, query, tripID, tenantID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	return &trip, nil
}

// AddOccupiedSeatsTx applies a signed delta to the trip's occupied-seat
// counter within the caller's transaction
func (r *TripRepository) AddOccupiedSeatsTx(tx *sqlx.Tx, tripID uuid.UUID, delta int) error {
	result, err := tx.Exec(`
		UPDATE trips
		SET occupied_seats = occupied_seats + $2, updated_at = NOW()
		WHERE id = $1`,
		tripID, delta)
	if err != nil {
		return fmt.Errorf("failed to update occupied seats: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check occupied seats update: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("trip %s not found for occupied seats update", tripID)
	}

	return nil
}
