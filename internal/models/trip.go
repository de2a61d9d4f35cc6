package models

import (
	"time"

	"github.com/google/uuid"
)

// TripStatus represents the status of a trip
type TripStatus string

const (
	TripStatusScheduled TripStatus = "scheduled"
	TripStatusDelayed   TripStatus = "delayed"
	TripStatusEnRoute   TripStatus = "en_route"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCancelled TripStatus = "cancelled"
)

// AcceptsSales reports whether new sales may be created for the trip.
// Only scheduled and delayed trips are sellable.
func (s TripStatus) AcceptsSales() bool {
	return s == TripStatusScheduled || s == TripStatusDelayed
}

// Trip is one dated occurrence of a route+schedule bound to a single bus.
// OccupiedSeats is a running counter mutated only inside the same transaction
// as the occupation rows it accounts for.
type Trip struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	TenantID      uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	RouteID       uuid.UUID  `json:"route_id" db:"route_id"`
	BusID         uuid.UUID  `json:"bus_id" db:"bus_id"`
	DepartureAt   time.Time  `json:"departure_at" db:"departure_at"`
	Capacity      int        `json:"capacity" db:"capacity"`
	OccupiedSeats int        `json:"occupied_seats" db:"occupied_seats"`
	Status        TripStatus `json:"status" db:"status"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}
