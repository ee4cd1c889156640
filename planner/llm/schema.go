// Copyright 2025 TripAI
// SPDX-License-Identifier: Apache-2.0

package llm

import "tripai/backend/shared/types"

// Response schemas passed to the model. Each one constrains a request
// kind to a JSON array of its record type so the reply parses directly
// into the shared types.

func stringProp(desc string) map[string]interface{} {
	p := map[string]interface{}{"type": "STRING"}
	if desc != "" {
		p["description"] = desc
	}
	return p
}

func numberProp(desc string) map[string]interface{} {
	p := map[string]interface{}{"type": "NUMBER"}
	if desc != "" {
		p["description"] = desc
	}
	return p
}

func coordinatesProp() map[string]interface{} {
	return map[string]interface{}{
		"type": "OBJECT",
		"properties": map[string]interface{}{
			"lat": numberProp(""),
			"lng": numberProp(""),
		},
		"required": []string{"lat", "lng"},
	}
}

func arrayOf(items map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"type":  "ARRAY",
		"items": items,
	}
}

// RouteOptionsSchema constrains route generation to []types.RouteOption.
func RouteOptionsSchema() map[string]interface{} {
	return arrayOf(map[string]interface{}{
		"type": "OBJECT",
		"properties": map[string]interface{}{
			"id":          stringProp(""),
			"name":        stringProp("Name of the route"),
			"distance":    stringProp("Estimated distance"),
			"duration":    stringProp("Estimated travel time"),
			"description": stringProp("Short description of why this route is good"),
			"highlights": map[string]interface{}{
				"type":        "ARRAY",
				"items":       stringProp(""),
				"description": "List of 3 major cities or landmarks passed",
			},
		},
		"required": []string{"id", "name", "distance", "duration", "description", "highlights"},
	})
}

func alternativeSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "OBJECT",
		"properties": map[string]interface{}{
			"title":        stringProp("Name of the alternative place"),
			"description":  stringProp("Short description"),
			"costPerAdult": numberProp("Cost per adult in VNĐ"),
			"costPerChild": numberProp("Cost per child in VNĐ"),
			"rating":       stringProp("Rating (e.g. 4.5/5)"),
			"locationName": stringProp("Location name"),
			"coordinates":  coordinatesProp(),
		},
		"required": []string{"title", "description", "costPerAdult", "costPerChild", "locationName"},
	}
}

// ItinerarySchema constrains itinerary generation to []types.TimelineItem.
func ItinerarySchema() map[string]interface{} {
	stopTypes := types.StopTypes()
	typeEnum := make([]string, len(stopTypes))
	for i, st := range stopTypes {
		typeEnum[i] = string(st)
	}

	return arrayOf(map[string]interface{}{
		"type": "OBJECT",
		"properties": map[string]interface{}{
			"day":         numberProp("Day number (1, 2, 3...)"),
			"time":        stringProp("Time of arrival/activity (e.g. 07:30 AM)"),
			"title":       stringProp("Name of the place or activity"),
			"description": stringProp("Interesting details about this stop"),
			"type": map[string]interface{}{
				"type": "STRING",
				"enum": typeEnum,
			},
			"locationName": stringProp("City or specific address area"),
			"rating":       stringProp("Rating out of 5 (e.g. 4.7/5)"),
			"costPerAdult": numberProp("Estimated cost per adult in VNĐ (0 if free or not applicable)"),
			"costPerChild": numberProp("Estimated cost per child in VNĐ (typically 50-70% of adult, 0 if free)"),
			"alternatives": map[string]interface{}{
				"type":        "ARRAY",
				"items":       alternativeSchema(),
				"description": "2 alternative options for FOOD/SIGHTSEEING items, empty for others",
			},
			"coordinates": coordinatesProp(),
		},
		"required": []string{
			"day", "time", "title", "description", "type", "locationName",
			"coordinates", "costPerAdult", "costPerChild", "alternatives",
		},
	})
}

// HotelSchema constrains hotel generation to []types.HotelRecommendation.
func HotelSchema() map[string]interface{} {
	return arrayOf(map[string]interface{}{
		"type": "OBJECT",
		"properties": map[string]interface{}{
			"id":            stringProp(""),
			"name":          stringProp("Hotel name"),
			"rating":        stringProp("Rating out of 5 (e.g. 4.5/5)"),
			"pricePerNight": numberProp("Price per night in VNĐ"),
			"totalPrice":    numberProp("Total price for all nights in VNĐ"),
			"description":   stringProp("Short description of the hotel"),
			"amenities": map[string]interface{}{
				"type":        "ARRAY",
				"items":       stringProp(""),
				"description": "List of main amenities (e.g. Wifi, Pool, Breakfast)",
			},
			"location":    stringProp("Location description (e.g. City center)"),
			"coordinates": coordinatesProp(),
		},
		"required": []string{
			"id", "name", "rating", "pricePerNight", "totalPrice",
			"description", "amenities", "location",
		},
	})
}

// FlightSchema constrains flight generation to []types.FlightOption.
func FlightSchema() map[string]interface{} {
	return arrayOf(map[string]interface{}{
		"type": "OBJECT",
		"properties": map[string]interface{}{
			"id":              stringProp(""),
			"airline":         stringProp("Airline name (e.g. Vietnam Airlines)"),
			"flightNumber":    stringProp("Flight number (e.g. VN123)"),
			"departureTime":   stringProp("Departure time (e.g. 07:30)"),
			"arrivalTime":     stringProp("Arrival time (e.g. 09:45)"),
			"duration":        stringProp("Flight duration (e.g. 2h 15m)"),
			"stops":           numberProp("Number of stops (0 = direct)"),
			"stopDescription": stringProp("Stop description if any (e.g. Via Bangkok)"),
			"pricePerAdult":   numberProp("Ticket price per adult in VNĐ"),
			"pricePerChild":   numberProp("Ticket price per child in VNĐ"),
			"cabinClass":      stringProp("Cabin class (Economy or Business)"),
		},
		"required": []string{
			"id", "airline", "flightNumber", "departureTime", "arrivalTime",
			"duration", "stops", "pricePerAdult", "pricePerChild", "cabinClass",
		},
	})
}
