// Copyright 2025 TripAI
// SPDX-License-Identifier: Apache-2.0

// Package llm is the AI gateway for trip planning. It turns prompt text
// into typed route, itinerary, hotel and flight records, degrading to
// fallbacks instead of surfacing provider errors to callers.
package llm

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/prometheus/client_golang/prometheus"

	"tripai/backend/planner/prompt"
	"tripai/backend/shared/logger"
	"tripai/backend/shared/types"
)

// Completer is the surface the gateway needs from a model provider.
type Completer interface {
	CompleteJSON(ctx context.Context, promptText string, schema map[string]interface{}) (string, error)
}

var llmRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tripai_llm_requests_total",
		Help: "Model calls by request kind and outcome.",
	},
	[]string{"kind", "status"},
)

func init() {
	prometheus.MustRegister(llmRequestsTotal)
}

// Gateway generates trip content through a Completer. All Fetch methods
// share the same contract: on any provider or parse failure they log,
// count the failure and return a usable fallback value, never an error.
type Gateway struct {
	completer Completer
	log       *logger.Logger
}

// NewGateway creates a gateway around the given completer.
func NewGateway(completer Completer, log *logger.Logger) *Gateway {
	if log == nil {
		log = logger.New("ai-gateway")
	}
	return &Gateway{completer: completer, log: log}
}

// LocationImageURL builds a thumbnail URL for a place through the Bing
// image proxy. The model does not return images; every card gets one
// synthesized from its title and location.
func LocationImageURL(title, location, country string) string {
	if country == "" {
		country = "travel"
	}
	query := title + " " + location + " " + country + " travel scenery"
	return "https://tse3.mm.bing.net/th?q=" + url.QueryEscape(query) + "&w=800&h=600&c=7&rs=1"
}

func (g *Gateway) completeInto(ctx context.Context, kind, promptText string, schema map[string]interface{}, out interface{}) bool {
	sessionID := logger.SessionIDFromContext(ctx)
	requestID := logger.RequestIDFromContext(ctx)

	raw, err := g.completer.CompleteJSON(ctx, promptText, schema)
	if err != nil {
		llmRequestsTotal.WithLabelValues(kind, "error").Inc()
		g.log.ErrorWithErr(sessionID, requestID, "model call failed", err, map[string]interface{}{
			"kind": kind,
		})
		return false
	}
	if raw == "" {
		llmRequestsTotal.WithLabelValues(kind, "empty").Inc()
		g.log.Warn(sessionID, requestID, "model returned no content", map[string]interface{}{
			"kind": kind,
		})
		return false
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		llmRequestsTotal.WithLabelValues(kind, "parse_error").Inc()
		g.log.ErrorWithErr(sessionID, requestID, "model reply did not match schema", err, map[string]interface{}{
			"kind":  kind,
			"bytes": len(raw),
		})
		return false
	}

	llmRequestsTotal.WithLabelValues(kind, "ok").Inc()
	return true
}

// FetchRouteOptions asks the model for candidate routes. On failure it
// returns a single fallback route so the planning flow can continue.
func (g *Gateway) FetchRouteOptions(ctx context.Context, origin, destination string, lang types.Language, travelMode types.TravelMode) []types.RouteOption {
	promptText := prompt.BuildRouteOptionsPrompt(prompt.RouteOptionsParams{
		Origin:      origin,
		Destination: destination,
		Lang:        lang,
		TravelMode:  travelMode,
	})

	var routes []types.RouteOption
	if !g.completeInto(ctx, "routes", promptText, RouteOptionsSchema(), &routes) || len(routes) == 0 {
		fb := prompt.FallbackRouteMessage(lang)
		return []types.RouteOption{{
			ID:          "r1",
			Name:        fb.Name,
			Distance:    "Unknown",
			Duration:    "Unknown",
			Description: fb.Description,
			Highlights:  []string{},
		}}
	}
	return routes
}

// FetchItinerary asks the model for the full day-by-day timeline and
// enriches every stop and alternative with an image URL. Failure yields
// an empty slice.
func (g *Gateway) FetchItinerary(ctx context.Context, origin, destination, routeName string, lang types.Language, travelMode types.TravelMode, nights int) []types.TimelineItem {
	promptText := prompt.BuildItineraryPrompt(prompt.ItineraryParams{
		Origin:      origin,
		Destination: destination,
		RouteName:   routeName,
		Lang:        lang,
		TravelMode:  travelMode,
		Nights:      nights,
	})
	region := prompt.DetectRegion(origin, destination)

	var items []types.TimelineItem
	if !g.completeInto(ctx, "itinerary", promptText, ItinerarySchema(), &items) {
		return []types.TimelineItem{}
	}

	for i := range items {
		if items[i].Day == 0 {
			items[i].Day = 1
		}
		items[i].ImageURL = LocationImageURL(items[i].Title, items[i].LocationName, region)
		for j := range items[i].Alternatives {
			alt := &items[i].Alternatives[j]
			alt.ImageURL = LocationImageURL(alt.Title, alt.LocationName, region)
		}
	}
	return items
}

// FetchHotelRecommendations asks the model for hotels within the nightly
// budget. Failure yields an empty slice.
func (g *Gateway) FetchHotelRecommendations(ctx context.Context, destination string, nights int, budget types.HotelBudget, lang types.Language, tripStyles []types.TripStyle) []types.HotelRecommendation {
	promptText := prompt.BuildHotelPrompt(prompt.HotelParams{
		Destination: destination,
		Nights:      nights,
		BudgetMin:   budget.Min,
		BudgetMax:   budget.Max,
		Lang:        lang,
		TripStyles:  tripStyles,
	})
	region := prompt.DetectRegion("", destination)

	var hotels []types.HotelRecommendation
	if !g.completeInto(ctx, "hotels", promptText, HotelSchema(), &hotels) {
		return []types.HotelRecommendation{}
	}

	for i := range hotels {
		hotels[i].ImageURL = LocationImageURL(hotels[i].Name, destination, region)
	}
	return hotels
}

// FetchFlightOptions asks the model for flight options. Failure yields
// an empty slice.
func (g *Gateway) FetchFlightOptions(ctx context.Context, origin, destination, departureDate, returnDate string, lang types.Language) []types.FlightOption {
	promptText := prompt.BuildFlightPrompt(prompt.FlightParams{
		Origin:        origin,
		Destination:   destination,
		DepartureDate: departureDate,
		ReturnDate:    returnDate,
		Lang:          lang,
	})

	var flights []types.FlightOption
	if !g.completeInto(ctx, "flights", promptText, FlightSchema(), &flights) {
		return []types.FlightOption{}
	}
	return flights
}
