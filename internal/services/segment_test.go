package services

import (
	"math/rand"
	"testing"

	"github.com/coopbus/ticketing-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStops() []models.RouteStop {
	return []models.RouteStop{
		{CityID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), CityName: "Alder", StopOrder: 1, CumulativeDistance: 0, CumulativeMinutes: 0, CumulativePrice: 0},
		{CityID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), CityName: "Birch", StopOrder: 2, CumulativeDistance: 80, CumulativeMinutes: 90, CumulativePrice: 10},
		{CityID: uuid.MustParse("00000000-0000-0000-0000-000000000003"), CityName: "Cedar", StopOrder: 3, CumulativeDistance: 150, CumulativeMinutes: 170, CumulativePrice: 25},
		{CityID: uuid.MustParse("00000000-0000-0000-0000-000000000004"), CityName: "Doyle", StopOrder: 4, CumulativeDistance: 240, CumulativeMinutes: 260, CumulativePrice: 42},
	}
}

func TestResolveLeg(t *testing.T) {
	stops := testStops()

	t.Run("Full Route", func(t *testing.T) {
		leg, err := ResolveLeg(stops, stops[0].CityID, stops[3].CityID)
		require.NoError(t, err)
		assert.Equal(t, 1, leg.OriginOrder)
		assert.Equal(t, 4, leg.DestinationOrder)
		assert.Equal(t, 42.0, leg.BasePrice)
		assert.Equal(t, 260, leg.BaseMinutes)
		assert.Equal(t, 240.0, leg.BaseDistance)
	})

	t.Run("Inner Leg", func(t *testing.T) {
		leg, err := ResolveLeg(stops, stops[1].CityID, stops[2].CityID)
		require.NoError(t, err)
		assert.Equal(t, 2, leg.OriginOrder)
		assert.Equal(t, 3, leg.DestinationOrder)
		assert.Equal(t, 15.0, leg.BasePrice)
		assert.Equal(t, 80, leg.BaseMinutes)
		assert.Equal(t, 70.0, leg.BaseDistance)
	})

	t.Run("Origin Not On Route", func(t *testing.T) {
		leg, err := ResolveLeg(stops, uuid.New(), stops[2].CityID)
		assert.Nil(t, leg)
		assert.True(t, models.IsKind(err, models.ErrKindNotFound))
	})

	t.Run("Destination Not On Route", func(t *testing.T) {
		leg, err := ResolveLeg(stops, stops[0].CityID, uuid.New())
		assert.Nil(t, leg)
		assert.True(t, models.IsKind(err, models.ErrKindNotFound))
	})

	t.Run("Reversed Leg", func(t *testing.T) {
		leg, err := ResolveLeg(stops, stops[2].CityID, stops[0].CityID)
		assert.Nil(t, leg)
		assert.True(t, models.IsKind(err, models.ErrKindInvalidRequest))
	})

	t.Run("Same Stop", func(t *testing.T) {
		leg, err := ResolveLeg(stops, stops[1].CityID, stops[1].CityID)
		assert.Nil(t, leg)
		assert.True(t, models.IsKind(err, models.ErrKindInvalidRequest))
	})
}

func TestOverlaps(t *testing.T) {
	t.Run("Known Cases", func(t *testing.T) {
		cases := []struct {
			name           string
			a1, b1, a2, b2 int
			want           bool
		}{
			{"identical", 1, 3, 1, 3, true},
			{"contained", 1, 4, 2, 3, true},
			{"partial", 1, 3, 2, 4, true},
			{"touching at stop", 1, 2, 2, 3, false},
			{"touching reversed", 2, 3, 1, 2, false},
			{"disjoint", 1, 2, 3, 4, false},
			{"single segment shared", 1, 2, 1, 2, true},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				assert.Equal(t, c.want, Overlaps(c.a1, c.b1, c.a2, c.b2))
				assert.Equal(t, c.want, Overlaps(c.a2, c.b2, c.a1, c.b1), "must be symmetric")
			})
		}
	})

	t.Run("Matches Segment Enumeration", func(t *testing.T) {
		// Two half-open intervals overlap exactly when they share a
		// travelled segment [k, k+1). Cross-check against brute force.
		rng := rand.New(rand.NewSource(42))
		for i := 0; i < 1000; i++ {
			a1 := rng.Intn(10) + 1
			b1 := a1 + rng.Intn(5) + 1
			a2 := rng.Intn(10) + 1
			b2 := a2 + rng.Intn(5) + 1

			shared := false
			for k := a1; k < b1; k++ {
				if k >= a2 && k < b2 {
					shared = true
				}
			}

			assert.Equal(t, shared, Overlaps(a1, b1, a2, b2),
				"[%d,%d) vs [%d,%d)", a1, b1, a2, b2)
		}
	})
}

func TestFindConflicts(t *testing.T) {
	seatA := uuid.New()
	seatB := uuid.New()

	occupations := []models.SeatOccupation{
		{SeatID: seatA, OriginStopOrder: 1, DestinationStopOrder: 2},
		{SeatID: seatA, OriginStopOrder: 2, DestinationStopOrder: 4},
		{SeatID: seatB, OriginStopOrder: 3, DestinationStopOrder: 4},
	}

	t.Run("No Conflicts", func(t *testing.T) {
		// seat A holds [1,2) and [2,4); seat B holds [3,4); the leg [4,5)
		// starts where everything ends
		conflicts := FindConflicts(occupations, 4, 5)
		assert.Empty(t, conflicts)
	})

	t.Run("Single Conflict", func(t *testing.T) {
		conflicts := FindConflicts(occupations, 1, 2)
		require.Len(t, conflicts, 1)
		assert.Equal(t, seatA, conflicts[0].SeatID)
	})

	t.Run("Multiple Conflicts Deduplicated", func(t *testing.T) {
		conflicts := FindConflicts(occupations, 1, 4)
		require.Len(t, conflicts, 3)

		ids := ConflictingSeatIDs(conflicts)
		assert.Len(t, ids, 2)
		assert.Contains(t, ids, seatA)
		assert.Contains(t, ids, seatB)
	})

	t.Run("Empty Occupations", func(t *testing.T) {
		assert.Empty(t, FindConflicts(nil, 1, 4))
	})
}
