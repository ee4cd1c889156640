// Copyright 2025 TripAI
// SPDX-License-Identifier: Apache-2.0

package trip

import (
	"context"

	"tripai/backend/shared/logger"
	"tripai/backend/shared/types"
)

// repairItinerary normalizes model output before it becomes session
// state: day numbers are clamped into [1, totalDays] and a missing day
// defaults to 1. Stops whose first/last types break the
// departure-to-arrival shape are logged but kept; the timeline still
// renders, just without the expected endpoints.
func (s *Session) repairItinerary(ctx context.Context, items []types.TimelineItem, totalDays int) []types.TimelineItem {
	if totalDays < 1 {
		totalDays = 1
	}
	requestID := logger.RequestIDFromContext(ctx)

	clamped := 0
	for i := range items {
		switch {
		case items[i].Day < 1:
			items[i].Day = 1
			clamped++
		case items[i].Day > totalDays:
			items[i].Day = totalDays
			clamped++
		}
		if items[i].Alternatives == nil {
			items[i].Alternatives = []types.AlternativeOption{}
		}
	}
	if clamped > 0 {
		s.log.Warn(s.id, requestID, "clamped out-of-range itinerary days", map[string]interface{}{
			"clamped":    clamped,
			"total_days": totalDays,
		})
	}

	if len(items) > 0 {
		if first := items[0].Type; first != types.StopDeparture {
			s.log.Warn(s.id, requestID, "itinerary does not start with a departure stop", map[string]interface{}{
				"type": string(first),
			})
		}
		if last := items[len(items)-1].Type; last != types.StopArrival && last != types.StopHotel {
			s.log.Warn(s.id, requestID, "itinerary does not end with an arrival stop", map[string]interface{}{
				"type": string(last),
			})
		}
	}

	if items == nil {
		items = []types.TimelineItem{}
	}
	return items
}
