package database

import (
	"database/sql"
	"fmt"

	"github.com/coopbus/ticketing-backend/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SaleRepository handles sale and ticket database operations
type SaleRepository struct {
	db *sqlx.DB
}

// NewSaleRepository creates a new SaleRepository
func NewSaleRepository(db *sqlx.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

const saleColumns = `id, tenant_id, trip_id, payment_method_id, staff_id, created_by,
	   total_before_discount, total_discounts, total_final, payment_status,
	   created_at, updated_at`

const ticketColumns = `id, sale_id, trip_id, client_id, seat_id, origin_stop_order,
	   destination_stop_order, price_base, discount_type, discount_percent,
	   price_final, access_code, status, created_at, updated_at`

// InsertSaleTx inserts the sale row within the caller's transaction,
// populating its id and timestamps
func (r *SaleRepository) InsertSaleTx(tx *sqlx.Tx, sale *models.Sale) error {
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}

	query := `
		INSERT INTO sales (
			id, tenant_id, trip_id, payment_method_id, staff_id, created_by,
			total_before_discount, total_discounts, total_final, payment_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	err := tx.QueryRowx(query,
		sale.ID, sale.TenantID, sale.TripID, sale.PaymentMethodID, sale.StaffID,
		sale.CreatedBy, sale.TotalBeforeDiscount, sale.TotalDiscounts,
		sale.TotalFinal, sale.PaymentStatus,
	).Scan(&sale.CreatedAt, &sale.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert sale: %w", err)
	}

	return nil
}

// InsertTicketsTx batch-inserts the sale's tickets within the caller's transaction
func (r *SaleRepository) InsertTicketsTx(tx *sqlx.Tx, tickets []models.Ticket) error {
	query := `
		INSERT INTO tickets (
			id, sale_id, trip_id, client_id, seat_id,
			origin_stop_order, destination_stop_order,
			price_base, discount_type, discount_percent, price_final,
			access_code, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`

	for i := range tickets {
		t := &tickets[i]
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		err := tx.QueryRowx(query,
			t.ID, t.SaleID, t.TripID, t.ClientID, t.SeatID,
			t.OriginStopOrder, t.DestinationStopOrder,
			t.PriceBase, t.DiscountType, t.DiscountPercent, t.PriceFinal,
			t.AccessCode, t.Status,
		).Scan(&t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert ticket for client %s: %w", t.ClientID, err)
		}
	}

	return nil
}

// GetWithTickets returns a sale and its tickets, or nil when absent
func (r *SaleRepository) GetWithTickets(saleID, tenantID uuid.UUID) (*models.SaleWithTickets, error) {
	return getSaleWithTickets(r.db, saleID, tenantID)
}

// GetWithTicketsTx is GetWithTickets inside the caller's transaction
func (r *SaleRepository) GetWithTicketsTx(tx *sqlx.Tx, saleID, tenantID uuid.UUID) (*models.SaleWithTickets, error) {
	return getSaleWithTickets(tx, saleID, tenantID)
}

func getSaleWithTickets(q sqlx.Queryer, saleID, tenantID uuid.UUID) (*models.SaleWithTickets, error) {
	saleQuery := fmt.Sprintf(`SELECT %s FROM sales WHERE id = $1 AND tenant_id = $2`, saleColumns)

	var sale models.Sale
	err := sqlx.Get(q, &sale, saleQuery, saleID, tenantID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}

	ticketsQuery := fmt.Sprintf(`
		SELECT %s FROM tickets
		WHERE sale_id = $1
		ORDER BY created_at, id`, ticketColumns)

	var tickets []models.Ticket
	if err := sqlx.Select(q, &tickets, ticketsQuery, saleID); err != nil {
		return nil, fmt.Errorf("failed to get sale tickets: %w", err)
	}

	return &models.SaleWithTickets{Sale: sale, Tickets: tickets}, nil
}

// UpdatePaymentStatusTx moves the sale to a new payment status within the
// caller's transaction
func (r *SaleRepository) UpdatePaymentStatusTx(tx *sqlx.Tx, saleID uuid.UUID, status models.SalePaymentStatus) error {
	result, err := tx.Exec(`
		UPDATE sales SET payment_status = $2, updated_at = NOW()
		WHERE id = $1`, saleID, status)
	if err != nil {
		return fmt.Errorf("failed to update sale status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check sale status update: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("sale %s not found for status update", saleID)
	}

	return nil
}

// UpdateTicketsStatusTx moves all of a sale's tickets to a new status within
// the caller's transaction, returning the number of tickets updated
func (r *SaleRepository) UpdateTicketsStatusTx(tx *sqlx.Tx, saleID uuid.UUID, status models.TicketStatus) (int, error) {
	result, err := tx.Exec(`
		UPDATE tickets SET status = $2, updated_at = NOW()
		WHERE sale_id = $1`, saleID, status)
	if err != nil {
		return 0, fmt.Errorf("failed to update ticket statuses: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count updated tickets: %w", err)
	}

	return int(rows), nil
}
