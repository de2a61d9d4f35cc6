package models

import (
	"time"

	"github.com/google/uuid"
)

// Route represents an ordered sequence of stops operated by a tenant
type Route struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TenantID  uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Name      string    `json:"name" db:"name"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// RouteStop is one ordered stop on a route. StopOrder is 1-based and strictly
// increasing; the cumulative columns are monotonically non-decreasing in
// StopOrder, so any leg price is the difference of two cumulative prices.
type RouteStop struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	RouteID            uuid.UUID `json:"route_id" db:"route_id"`
	CityID             uuid.UUID `json:"city_id" db:"city_id"`
	CityName           string    `json:"city_name" db:"city_name"`
	StopOrder          int       `json:"stop_order" db:"stop_order"`
	CumulativeDistance float64   `json:"cumulative_distance" db:"cumulative_distance"`
	CumulativeMinutes  int       `json:"cumulative_minutes" db:"cumulative_minutes"`
	CumulativePrice    float64   `json:"cumulative_price" db:"cumulative_price"`
}

// RouteWithStops bundles a route and its stops ordered by stop_order
type RouteWithStops struct {
	Route Route       `json:"route"`
	Stops []RouteStop `json:"stops"`
}
