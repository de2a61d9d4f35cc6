package services

import (
	"github.com/coopbus/ticketing-backend/internal/models"
	"github.com/google/uuid"
)

// LegQuote is the resolved origin→destination leg of a route.
// BasePrice is the difference of the cumulative prices of the two stops.
type LegQuote struct {
	OriginOrder      int     `json:"origin_order"`
	DestinationOrder int     `json:"destination_order"`
	BasePrice        float64 `json:"base_price"`
	BaseMinutes      int     `json:"base_minutes"`
	BaseDistance     float64 `json:"base_distance"`
}

// ResolveLeg resolves two city ids against a route's ordered stops.
// Destination must follow origin along the route; reversed or equal legs
// are rejected before any inventory check runs.
func ResolveLeg(stops []models.RouteStop, originCityID, destinationCityID uuid.UUID) (*LegQuote, error) {
	var origin, destination *models.RouteStop
	for i := range stops {
		stop := &stops[i]
		if stop.CityID == originCityID {
			origin = stop
		}
		if stop.CityID == destinationCityID {
			destination = stop
		}
	}

	if origin == nil {
		return nil, models.NewNotFound("origin city %s has no stop on this route", originCityID)
	}
	if destination == nil {
		return nil, models.NewNotFound("destination city %s has no stop on this route", destinationCityID)
	}
	if origin.StopOrder >= destination.StopOrder {
		return nil, models.NewInvalidRequest(
			"destination %s (stop %d) does not follow origin %s (stop %d) on this route",
			destination.CityName, destination.StopOrder, origin.CityName, origin.StopOrder)
	}

	return &LegQuote{
		OriginOrder:      origin.StopOrder,
		DestinationOrder: destination.StopOrder,
		BasePrice:        destination.CumulativePrice - origin.CumulativePrice,
		BaseMinutes:      destination.CumulativeMinutes - origin.CumulativeMinutes,
		BaseDistance:     destination.CumulativeDistance - origin.CumulativeDistance,
	}, nil
}

// Overlaps reports whether the half-open stop intervals [a1,b1) and [a2,b2)
// share at least one sub-interval. Legs that touch at a stop (b1 == a2) do
// not overlap, which is what lets one seat be sold A→B and B→C on the same
// trip.
func Overlaps(a1, b1, a2, b2 int) bool {
	return a1 < b2 && a2 < b1
}

// FindConflicts returns the occupations whose interval overlaps the
// candidate leg [origin, destination). An empty result means every requested
// seat is free for that leg.
func FindConflicts(occupations []models.SeatOccupation, origin, destination int) []models.SeatOccupation {
	var conflicts []models.SeatOccupation
	for _, occ := range occupations {
		if Overlaps(occ.OriginStopOrder, occ.DestinationStopOrder, origin, destination) {
			conflicts = append(conflicts, occ)
		}
	}
	return conflicts
}

// ConflictingSeatIDs deduplicates the seats involved in a conflict set
func ConflictingSeatIDs(conflicts []models.SeatOccupation) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(conflicts))
	var ids []uuid.UUID
	for _, occ := range conflicts {
		if !seen[occ.SeatID] {
			seen[occ.SeatID] = true
			ids = append(ids, occ.SeatID)
		}
	}
	return ids
}
