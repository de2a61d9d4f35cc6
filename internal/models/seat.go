package models

import (
	"time"

	"github.com/google/uuid"
)

// SeatStatus is the operational state of a physical seat, independent of
// booking state. Booking state lives in seat occupations.
type SeatStatus string

const (
	SeatStatusAvailable   SeatStatus = "available"
	SeatStatusMaintenance SeatStatus = "maintenance"
	SeatStatusBlocked     SeatStatus = "blocked"
)

// Seat belongs to one bus floor and carries the price factor of its seat type
type Seat struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	BusID       uuid.UUID  `json:"bus_id" db:"bus_id"`
	Floor       int        `json:"floor" db:"floor"`
	SeatNumber  string     `json:"seat_number" db:"seat_number"`
	SeatType    string     `json:"seat_type" db:"seat_type"`
	PriceFactor float64    `json:"price_factor" db:"price_factor"`
	Status      SeatStatus `json:"status" db:"status"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
