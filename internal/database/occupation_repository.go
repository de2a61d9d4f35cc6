package database

import (
	"fmt"

	"github.com/coopbus/ticketing-backend/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// OccupationRepository handles seat occupation database operations.
// An occupation binds one seat to the half-open stop interval of one ticket.
type OccupationRepository struct {
	db *sqlx.DB
}

// NewOccupationRepository creates a new OccupationRepository
func NewOccupationRepository(db *sqlx.DB) *OccupationRepository {
	return &OccupationRepository{db: db}
}

const occupationColumns = `id, trip_id, seat_id, ticket_id, origin_stop_order,
		   destination_stop_order, created_at`

// ListForSeatsTx returns all occupations for the given seats on a trip,
// inside the caller's transaction. The overlap check must run on this read
// so the transaction's isolation linearizes it with the inserts.
func (r *OccupationRepository) ListForSeatsTx(tx *sqlx.Tx, tripID uuid.UUID, seatIDs []uuid.UUID) ([]models.SeatOccupation, error) {
	if len(seatIDs) == 0 {
		return nil, nil
	}

	ids := make([]string, len(seatIDs))
	for i, id := range seatIDs {
		ids[i] = id.String()
	}

	query := fmt.Sprintf(`
		SELECT %s FROM seat_occupations
		WHERE trip_id = $1 AND seat_id = ANY($2)`, occupationColumns)

	var occupations []models.SeatOccupation
	if err := tx.Select(&occupations, query, tripID, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("failed to list seat occupations: %w", err)
	}

	return occupations, nil
}

// ListForTrip returns all occupations on a trip. Used by the read-only
// availability query; freshness is best-effort.
func (r *OccupationRepository) ListForTrip(tripID uuid.UUID) ([]models.SeatOccupation, error) {
	query := fmt.Sprintf(`SELECT %s FROM seat_occupations WHERE trip_id = $1`, occupationColumns)

	var occupations []models.SeatOccupation
	if err := r.db.Select(&occupations, query, tripID); err != nil {
		return nil, fmt.Errorf("failed to list trip occupations: %w", err)
	}

	return occupations, nil
}

// InsertBatchTx inserts one occupation per ticket within the caller's transaction
func (r *OccupationRepository) InsertBatchTx(tx *sqlx.Tx, occupations []models.SeatOccupation) error {
	query := `
		INSERT INTO seat_occupations (
			id, trip_id, seat_id, ticket_id, origin_stop_order, destination_stop_order
		) VALUES ($1, $2, $3, $4, $5, $6)`

	for i := range occupations {
		occ := &occupations[i]
		if occ.ID == uuid.Nil {
			occ.ID = uuid.New()
		}
		_, err := tx.Exec(query,
			occ.ID, occ.TripID, occ.SeatID, occ.TicketID,
			occ.OriginStopOrder, occ.DestinationStopOrder)
		if err != nil {
			return fmt.Errorf("failed to insert occupation for seat %s: %w", occ.SeatID, err)
		}
	}

	return nil
}

// DeleteBySaleTx releases all occupations held by a sale's tickets,
// returning the number of rows removed
func (r *OccupationRepository) DeleteBySaleTx(tx *sqlx.Tx, saleID uuid.UUID) (int, error) {
	result, err := tx.Exec(`
		DELETE FROM seat_occupations
		WHERE ticket_id IN (SELECT id FROM tickets WHERE sale_id = $1)`, saleID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete sale occupations: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted occupations: %w", err)
	}

	return int(rows), nil
}
