package database

import (
	"fmt"

	"github.com/coopbus/ticketing-backend/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// SeatRepository handles seat database operations. Seats are mutated only by
// the fleet CRUD components; the sale engine reads them.
type SeatRepository struct {
	db *sqlx.DB
}

// NewSeatRepository creates a new SeatRepository
func NewSeatRepository(db *sqlx.DB) *SeatRepository {
	return &SeatRepository{db: db}
}

const seatColumns = `id, bus_id, floor, seat_number, seat_type, price_factor,
		   status, created_at, updated_at`

// GetByIDsTx returns the requested seats inside the caller's transaction.
// Missing ids simply produce a shorter result; the caller detects them.
func (r *SeatRepository) GetByIDsTx(tx *sqlx.Tx, seatIDs []uuid.UUID) ([]models.Seat, error) {
	if len(seatIDs) == 0 {
		return nil, nil
	}

	ids := make([]string, len(seatIDs))
	for i, id := range seatIDs {
		ids[i] = id.String()
	}

	query := fmt.Sprintf(`SELECT %s FROM seats WHERE id = ANY($1)`, seatColumns)

	var seats []models.Seat
	if err := tx.Select(&seats, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("failed to get seats: %w", err)
	}

	return seats, nil
}

// GetByBus returns all seats of a bus ordered by floor and seat number
func (r *SeatRepository) GetByBus(busID uuid.UUID) ([]models.Seat, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM seats
		WHERE bus_id = $1
		ORDER BY floor, seat_number`, seatColumns)

	var seats []models.Seat
	if err := r.db.Select(&seats, query, busID); err != nil {
		return nil, fmt.Errorf("failed to get bus seats: %w", err)
	}

	return seats, nil
}
