// Copyright 2025 TripAI
// SPDX-License-Identifier: Apache-2.0

package prompt

import (
	"strings"
	"testing"

	"tripai/backend/shared/types"
)

func TestBuildRouteOptionsPrompt(t *testing.T) {
	p := BuildRouteOptionsPrompt(RouteOptionsParams{
		Origin:      "Ho Chi Minh City",
		Destination: "Da Lat",
		Lang:        types.LangEnglish,
		TravelMode:  types.ModeCar,
	})

	for _, want := range []string{
		"road trip",
		"Ho Chi Minh City",
		"Da Lat",
		"in Vietnam",
		"3 distinct driving routes",
		"Response must be entirely in English.",
		"structured JSON format",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q:\n%s", want, p)
		}
	}
	if strings.Contains(p, "only air travel is possible") {
		t.Errorf("domestic trip must not carry the flight override note")
	}
}

func TestBuildRouteOptionsPromptForcesPlane(t *testing.T) {
	p := BuildRouteOptionsPrompt(RouteOptionsParams{
		Origin:      "Ho Chi Minh City",
		Destination: "Sydney",
		Lang:        types.LangEnglish,
		TravelMode:  types.ModeCar,
	})

	if !strings.Contains(p, "flight trip") {
		t.Errorf("cross-ocean trip should use the flight wording:\n%s", p)
	}
	if !strings.Contains(p, "only air travel is possible") {
		t.Errorf("cross-ocean trip should carry the override note:\n%s", p)
	}
}

func TestBuildRouteOptionsPromptVietnamese(t *testing.T) {
	p := BuildRouteOptionsPrompt(RouteOptionsParams{
		Origin:      "Hà Nội",
		Destination: "Đà Nẵng",
		Lang:        types.LangVietnamese,
		TravelMode:  types.ModeMotorbike,
	})

	if !strings.Contains(p, "chuyến đi xe máy") {
		t.Errorf("expected Vietnamese motorbike wording:\n%s", p)
	}
	if !strings.Contains(p, "Response must be entirely in Vietnamese.") {
		t.Errorf("missing language directive:\n%s", p)
	}
}

func TestBuildItineraryPrompt(t *testing.T) {
	p := BuildItineraryPrompt(ItineraryParams{
		Origin:      "Ho Chi Minh City",
		Destination: "Da Lat",
		RouteName:   "Scenic Route",
		Lang:        types.LangEnglish,
		TravelMode:  types.ModeCar,
		Nights:      2,
	})

	for _, want := range []string{
		"3-DAY itinerary",
		`"Scenic Route"`,
		"DAY 2 to DAY 2",
		"about 12 items",
		`"day" field`,
		"Vietnam",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q:\n%s", want, p)
		}
	}
}

func TestBuildItineraryPromptDefaultsNights(t *testing.T) {
	p := BuildItineraryPrompt(ItineraryParams{
		Origin:      "Ho Chi Minh City",
		Destination: "Da Lat",
		RouteName:   "Fastest Route",
		Lang:        types.LangEnglish,
		TravelMode:  types.ModeCar,
		Nights:      0,
	})

	if !strings.Contains(p, "2-DAY itinerary") {
		t.Errorf("nights below 1 should clamp to a 2-day trip:\n%s", p)
	}
	// A 1-night trip has no middle days.
	if strings.Contains(p, "DAY 2 to DAY") {
		t.Errorf("1-night trip must not include a middle-day block:\n%s", p)
	}
}

func TestBuildItineraryPromptFlightVariant(t *testing.T) {
	p := BuildItineraryPrompt(ItineraryParams{
		Origin:      "Ho Chi Minh City",
		Destination: "Tokyo",
		RouteName:   "Direct Flight",
		Lang:        types.LangEnglish,
		TravelMode:  types.ModeCar, // overridden by the flying heuristic
		Nights:      3,
	})

	if !strings.Contains(p, "flight trip") || !strings.Contains(p, "airport") {
		t.Errorf("expected the flight day-plan variant:\n%s", p)
	}
}

func TestBuildHotelPrompt(t *testing.T) {
	p := BuildHotelPrompt(HotelParams{
		Destination: "Da Lat",
		Nights:      2,
		BudgetMin:   500000,
		BudgetMax:   1500000,
		Lang:        types.LangEnglish,
		TripStyles:  []types.TripStyle{types.StyleFoodie, types.StyleNature},
	})

	for _, want := range []string{
		"3 hotels in Da Lat",
		"2-night stay",
		"500k VNĐ",
		"1.5tr VNĐ",
		"foodie, nature",
		"price per night × 2 nights",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q:\n%s", want, p)
		}
	}
}

func TestBuildFlightPrompt(t *testing.T) {
	p := BuildFlightPrompt(FlightParams{
		Origin:        "Ho Chi Minh City",
		Destination:   "Sydney",
		DepartureDate: "2026-01-15",
		ReturnDate:    "2026-01-18",
		Lang:          types.LangEnglish,
	})

	for _, want := range []string{
		"3 flights from Ho Chi Minh City to Sydney",
		"2026-01-15",
		"return date: 2026-01-18",
		"cabin class",
		"VNĐ",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q:\n%s", want, p)
		}
	}
}

func TestPromptsAreDeterministic(t *testing.T) {
	params := RouteOptionsParams{
		Origin:      "Hà Nội",
		Destination: "Huế",
		Lang:        types.LangVietnamese,
		TravelMode:  types.ModeCar,
	}
	if BuildRouteOptionsPrompt(params) != BuildRouteOptionsPrompt(params) {
		t.Error("BuildRouteOptionsPrompt is not deterministic")
	}
}

func TestFallbackRouteMessage(t *testing.T) {
	vi := FallbackRouteMessage(types.LangVietnamese)
	en := FallbackRouteMessage(types.LangEnglish)

	if vi.Name == "" || vi.Description == "" || en.Name == "" || en.Description == "" {
		t.Error("fallback messages must be non-empty in both languages")
	}
	if vi.Name == en.Name {
		t.Error("fallback messages should be localized")
	}
}
