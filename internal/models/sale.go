package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MaxPassengersPerSale bounds transaction duration for a single checkout
const MaxPassengersPerSale = 50

// SalePaymentStatus represents the payment state of a sale.
// Approved is terminal and irreversible.
type SalePaymentStatus string

const (
	SalePaymentPending   SalePaymentStatus = "pending"
	SalePaymentVerifying SalePaymentStatus = "verifying"
	SalePaymentApproved  SalePaymentStatus = "approved"
	SalePaymentRejected  SalePaymentStatus = "rejected"
)

// TicketStatus represents the state of a single passenger ticket
type TicketStatus string

const (
	TicketStatusPending   TicketStatus = "pending"
	TicketStatusConfirmed TicketStatus = "confirmed"
	TicketStatusBoarded   TicketStatus = "boarded"
	TicketStatusNoShow    TicketStatus = "no_show"
	TicketStatusCancelled TicketStatus = "cancelled"
)

// Sale groups 1..N tickets from one checkout.
// Invariant: TotalFinal = TotalBeforeDiscount - TotalDiscounts = sum of ticket PriceFinal.
type Sale struct {
	ID                  uuid.UUID         `json:"id" db:"id"`
	TenantID            uuid.UUID         `json:"tenant_id" db:"tenant_id"`
	TripID              uuid.UUID         `json:"trip_id" db:"trip_id"`
	PaymentMethodID     uuid.UUID         `json:"payment_method_id" db:"payment_method_id"`
	StaffID             *uuid.UUID        `json:"staff_id,omitempty" db:"staff_id"`
	CreatedBy           uuid.UUID         `json:"created_by" db:"created_by"`
	TotalBeforeDiscount float64           `json:"total_before_discount" db:"total_before_discount"`
	TotalDiscounts      float64           `json:"total_discounts" db:"total_discounts"`
	TotalFinal          float64           `json:"total_final" db:"total_final"`
	PaymentStatus       SalePaymentStatus `json:"payment_status" db:"payment_status"`
	CreatedAt           time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at" db:"updated_at"`
}

// Ticket is one passenger's leg on a trip
type Ticket struct {
	ID                   uuid.UUID        `json:"id" db:"id"`
	SaleID               uuid.UUID        `json:"sale_id" db:"sale_id"`
	TripID               uuid.UUID        `json:"trip_id" db:"trip_id"`
	ClientID             uuid.UUID        `json:"client_id" db:"client_id"`
	SeatID               uuid.UUID        `json:"seat_id" db:"seat_id"`
	OriginStopOrder      int              `json:"origin_stop_order" db:"origin_stop_order"`
	DestinationStopOrder int              `json:"destination_stop_order" db:"destination_stop_order"`
	PriceBase            float64          `json:"price_base" db:"price_base"`
	DiscountType         DiscountCategory `json:"discount_type" db:"discount_type"`
	DiscountPercent      float64          `json:"discount_percent" db:"discount_percent"`
	PriceFinal           float64          `json:"price_final" db:"price_final"`
	AccessCode           string           `json:"access_code" db:"access_code"`
	Status               TicketStatus     `json:"status" db:"status"`
	CreatedAt            time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at" db:"updated_at"`
}

// SeatOccupation reserves one seat for the half-open stop interval
// [OriginStopOrder, DestinationStopOrder) of one trip. It is owned by the
// sale that created it and destroyed only on sale cancellation.
type SeatOccupation struct {
	ID                   uuid.UUID `json:"id" db:"id"`
	TripID               uuid.UUID `json:"trip_id" db:"trip_id"`
	SeatID               uuid.UUID `json:"seat_id" db:"seat_id"`
	TicketID             uuid.UUID `json:"ticket_id" db:"ticket_id"`
	OriginStopOrder      int       `json:"origin_stop_order" db:"origin_stop_order"`
	DestinationStopOrder int       `json:"destination_stop_order" db:"destination_stop_order"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
}

// SaleWithTickets is the full sale as returned to callers
type SaleWithTickets struct {
	Sale    Sale     `json:"sale"`
	Tickets []Ticket `json:"tickets"`
}

// SalePassenger is one requested seat assignment within a sale
type SalePassenger struct {
	ClientID uuid.UUID `json:"client_id" binding:"required"`
	SeatID   uuid.UUID `json:"seat_id" binding:"required"`
}

// CreateSaleRequest represents the request to create a sale for one leg of a trip
type CreateSaleRequest struct {
	TripID            uuid.UUID       `json:"trip_id" binding:"required"`
	OriginCityID      uuid.UUID       `json:"origin_city_id" binding:"required"`
	DestinationCityID uuid.UUID       `json:"destination_city_id" binding:"required"`
	PaymentMethodID   uuid.UUID       `json:"payment_method_id" binding:"required"`
	StaffID           *uuid.UUID      `json:"staff_id,omitempty"`
	Passengers        []SalePassenger `json:"passengers" binding:"required"`
}

// Validate validates the create sale request.
// The same client may hold multiple seats; the same seat may not appear twice.
func (r *CreateSaleRequest) Validate() error {
	if len(r.Passengers) == 0 {
		return errors.New("at least one passenger is required")
	}
	if len(r.Passengers) > MaxPassengersPerSale {
		return fmt.Errorf("a sale may hold at most %d passengers", MaxPassengersPerSale)
	}
	if r.OriginCityID == r.DestinationCityID {
		return errors.New("origin and destination cities must differ")
	}

	seen := make(map[uuid.UUID]bool, len(r.Passengers))
	for _, p := range r.Passengers {
		if p.ClientID == uuid.Nil {
			return errors.New("passenger client_id is required")
		}
		if p.SeatID == uuid.Nil {
			return errors.New("passenger seat_id is required")
		}
		if seen[p.SeatID] {
			return fmt.Errorf("seat %s is requested more than once", p.SeatID)
		}
		seen[p.SeatID] = true
	}

	return nil
}

// SeatAvailability is one row of the read-only availability query.
// Freshness is best-effort: a seat reported available may be taken by a
// concurrent sale before the caller acts.
type SeatAvailability struct {
	SeatID     uuid.UUID `json:"seat_id"`
	SeatNumber string    `json:"seat_number"`
	SeatType   string    `json:"seat_type"`
	Available  bool      `json:"available"`
	Price      float64   `json:"price"`
}
