package database

import (
	"database/sql"
	"fmt"

	"github.com/coopbus/ticketing-backend/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// RouteRepository handles route and route stop database operations.
// Routes and stops are read-only from the sale engine's perspective.
type RouteRepository struct {
	db *sqlx.DB
}

// NewRouteRepository creates a new RouteRepository
func NewRouteRepository(db *sqlx.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

const routeStopColumns = `rs.id, rs.route_id, rs.city_id, c.name AS city_name, rs.stop_order,
		   rs.cumulative_distance, rs.cumulative_minutes, rs.cumulative_price`

// GetWithStops returns a route with its stops ordered by stop_order, or nil
// when the route does not exist
func (r *RouteRepository) GetWithStops(routeID uuid.UUID) (*models.RouteWithStops, error) {
	return getRouteWithStops(r.db, routeID)
}

// GetWithStopsTx is GetWithStops inside the caller's transaction
func (r *RouteRepository) GetWithStopsTx(tx *sqlx.Tx, routeID uuid.UUID) (*models.RouteWithStops, error) {
	return getRouteWithStops(tx, routeID)
}

func getRouteWithStops(q sqlx.Queryer, routeID uuid.UUID) (*models.RouteWithStops, error) {
	var route models.Route
	err := sqlx.Get(q, &route, `
		SELECT id, tenant_id, name, active, created_at, updated_at
		FROM routes WHERE id = $1`, routeID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get route: %w", err)
	}

	stopsQuery := fmt.Sprintf(`
		SELECT %s
		FROM route_stops rs
		JOIN cities c ON c.id = rs.city_id
		WHERE rs.route_id = $1
		ORDER BY rs.stop_order`, routeStopColumns)

	var stops []models.RouteStop
	if err := sqlx.Select(q, &stops, stopsQuery, routeID); err != nil {
		return nil, fmt.Errorf("failed to get route stops: %w", err)
	}

	return &models.RouteWithStops{Route: route, Stops: stops}, nil
}
