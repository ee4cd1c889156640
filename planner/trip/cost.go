// Copyright 2025 TripAI
// SPDX-License-Identifier: Apache-2.0

package trip

import "tripai/backend/shared/types"

// CostBreakdown is the derived cost summary in VND. Food and activity
// buckets come from the selected itinerary items, the hotel bucket from
// the selected hotel's total price and the flight bucket from per-person
// ticket prices multiplied by the traveler counts.
type CostBreakdown struct {
	FoodCost      float64 `json:"foodCost"`
	ActivityCost  float64 `json:"activityCost"`
	HotelCost     float64 `json:"hotelCost"`
	FlightCost    float64 `json:"flightCost"`
	TotalCost     float64 `json:"totalCost"`
	FoodItems     int     `json:"foodItems"`
	ActivityItems int     `json:"activityItems"`
}

// ComputeCost resolves each selected itinerary index to its active
// record (the chosen alternative unless the -1 sentinel keeps the
// default) and sums the buckets. Pure function over its inputs.
func ComputeCost(
	itinerary []types.TimelineItem,
	selectedItems map[int]bool,
	selectedAlternatives map[int]int,
	hotel *types.HotelRecommendation,
	flight *types.FlightOption,
	travelers types.Travelers,
) CostBreakdown {
	var b CostBreakdown

	for index := range selectedItems {
		if index < 0 || index >= len(itinerary) {
			// Selection may outlive the itinerary it indexed into.
			continue
		}
		item := itinerary[index]

		costAdult := item.CostPerAdult
		costChild := item.CostPerChild
		if altIdx, ok := selectedAlternatives[index]; ok && altIdx >= 0 && altIdx < len(item.Alternatives) {
			costAdult = item.Alternatives[altIdx].CostPerAdult
			costChild = item.Alternatives[altIdx].CostPerChild
		}

		itemCost := costAdult*float64(travelers.Adults) + costChild*float64(travelers.Children)
		if item.Type == types.StopFood {
			b.FoodCost += itemCost
			b.FoodItems++
		} else {
			b.ActivityCost += itemCost
			b.ActivityItems++
		}
	}

	if hotel != nil {
		b.HotelCost = hotel.TotalPrice
	}
	if flight != nil {
		b.FlightCost = flight.PricePerAdult*float64(travelers.Adults) +
			flight.PricePerChild*float64(travelers.Children)
	}

	b.TotalCost = b.FoodCost + b.ActivityCost + b.HotelCost + b.FlightCost
	return b
}

func (s *Session) costBreakdownLocked() CostBreakdown {
	var travelers types.Travelers
	if s.params.Travelers != nil {
		travelers = *s.params.Travelers
	}
	return ComputeCost(s.itinerary, s.selectedCostItems, s.selectedAlternatives,
		s.selectedHotel, s.selectedFlight, travelers)
}
