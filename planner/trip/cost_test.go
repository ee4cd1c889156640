// Copyright 2025 TripAI
// SPDX-License-Identifier: Apache-2.0

package trip

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripai/backend/shared/types"
)

// detailedSession builds a session that has completed the full trip
// flow with 2 adults and 1 child.
func detailedSession(t *testing.T) *Session {
	t.Helper()
	s := newTestSession(&stubGateway{})
	ctx := context.Background()
	params := groundParams()
	params.TravelMode = types.ModePlane // flights in the join set
	require.NoError(t, s.Search(ctx, params))
	require.NoError(t, s.SelectRouteWithDetails(ctx, "r1", groundDetails()))
	return s
}

func TestCostEmptySelection(t *testing.T) {
	s := detailedSession(t)
	b := s.CostBreakdown()
	assert.Zero(t, b.TotalCost)
	assert.Zero(t, b.FoodItems)
	assert.Zero(t, b.ActivityItems)
}

func TestCostFoodVersusActivityBuckets(t *testing.T) {
	s := detailedSession(t)
	require.NoError(t, s.ToggleCostItem(1)) // FOOD: 150k adult / 100k child
	require.NoError(t, s.ToggleCostItem(2)) // SIGHTSEEING: 100k adult / 50k child

	b := s.CostBreakdown()
	assert.InDelta(t, 150000*2+100000*1, b.FoodCost, 1e-9)
	assert.InDelta(t, 100000*2+50000*1, b.ActivityCost, 1e-9)
	assert.Equal(t, 1, b.FoodItems)
	assert.Equal(t, 1, b.ActivityItems)
	assert.InDelta(t, b.FoodCost+b.ActivityCost, b.TotalCost, 1e-9)
}

func TestCostToggleTwiceRestoresTotal(t *testing.T) {
	s := detailedSession(t)
	before := s.CostBreakdown().TotalCost

	require.NoError(t, s.ToggleCostItem(1))
	assert.Greater(t, s.CostBreakdown().TotalCost, before)

	require.NoError(t, s.ToggleCostItem(1))
	assert.InDelta(t, before, s.CostBreakdown().TotalCost, 1e-9)
}

func TestCostIdempotent(t *testing.T) {
	s := detailedSession(t)
	require.NoError(t, s.ToggleCostItem(1))
	require.NoError(t, s.SelectHotel("h1"))
	require.NoError(t, s.SelectFlight("f1"))

	first := s.CostBreakdown()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, s.CostBreakdown())
	}
}

func TestCostAlternativeOverrideAndSentinel(t *testing.T) {
	s := detailedSession(t)
	require.NoError(t, s.ToggleCostItem(1))
	base := s.CostBreakdown().FoodCost
	assert.InDelta(t, 400000, base, 1e-9)

	// The cheaper alternative replaces the slot's cost.
	require.NoError(t, s.SelectAlternative(1, 0))
	assert.InDelta(t, 40000*2+30000*1, s.CostBreakdown().FoodCost, 1e-9)

	// The -1 sentinel restores the original option.
	require.NoError(t, s.SelectAlternative(1, -1))
	assert.InDelta(t, base, s.CostBreakdown().FoodCost, 1e-9)
}

func TestCostHotelUsesTotalPrice(t *testing.T) {
	s := detailedSession(t)
	require.NoError(t, s.SelectHotel("h1"))

	b := s.CostBreakdown()
	assert.InDelta(t, 5000000, b.HotelCost, 1e-9)
	assert.InDelta(t, 5000000, b.TotalCost, 1e-9)
}

func TestCostFlightPerTraveler(t *testing.T) {
	s := detailedSession(t)
	require.NoError(t, s.SelectFlight("f1"))

	b := s.CostBreakdown()
	assert.InDelta(t, 2000000*2+1500000*1, b.FlightCost, 1e-9)
}

func TestComputeCostSkipsDanglingIndices(t *testing.T) {
	// Selection indices may outlive the itinerary they pointed into.
	b := ComputeCost(
		sampleItinerary()[:2],
		map[int]bool{1: true, 7: true},
		nil, nil, nil,
		types.Travelers{Adults: 1},
	)
	assert.Equal(t, 1, b.FoodItems)
	assert.InDelta(t, 150000, b.TotalCost, 1e-9)
}

func TestComputeCostZeroTravelers(t *testing.T) {
	b := ComputeCost(
		sampleItinerary(),
		map[int]bool{1: true},
		nil, nil, nil,
		types.Travelers{},
	)
	assert.Zero(t, b.TotalCost)
	assert.Equal(t, 1, b.FoodItems, "item counts do not depend on traveler counts")
}
