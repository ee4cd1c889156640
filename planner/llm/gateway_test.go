// Copyright 2025 TripAI
// SPDX-License-Identifier: Apache-2.0

package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripai/backend/shared/types"
)

// fakeCompleter returns canned JSON per call, recording prompts.
type fakeCompleter struct {
	content string
	err     error
	prompts []string
	schemas []map[string]interface{}
}

func (f *fakeCompleter) CompleteJSON(_ context.Context, promptText string, schema map[string]interface{}) (string, error) {
	f.prompts = append(f.prompts, promptText)
	f.schemas = append(f.schemas, schema)
	return f.content, f.err
}

func TestFetchRouteOptions(t *testing.T) {
	fake := &fakeCompleter{content: `[
		{"id":"r1","name":"Coastal Route","distance":"950 km","duration":"18h",
		 "description":"Scenic drive along the coast","highlights":["Nha Trang","Phan Thiet","Vung Tau"]},
		{"id":"r2","name":"Highland Route","distance":"880 km","duration":"17h",
		 "description":"Mountain passes and pine forests","highlights":["Bao Loc","Da Lat","Buon Ma Thuot"]}
	]`}

	g := NewGateway(fake, nil)
	routes := g.FetchRouteOptions(context.Background(), "Hà Nội", "Đà Nẵng", types.LangEnglish, types.ModeCar)

	require.Len(t, routes, 2)
	assert.Equal(t, "Coastal Route", routes[0].Name)
	assert.Equal(t, []string{"Nha Trang", "Phan Thiet", "Vung Tau"}, routes[0].Highlights)

	require.Len(t, fake.prompts, 1)
	assert.Contains(t, fake.prompts[0], "Hà Nội")
	require.Len(t, fake.schemas, 1)
	assert.Equal(t, "ARRAY", fake.schemas[0]["type"])
}

func TestFetchRouteOptionsFallback(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeCompleter
	}{
		{"provider error", &fakeCompleter{err: errors.New("quota exceeded")}},
		{"empty content", &fakeCompleter{content: ""}},
		{"malformed JSON", &fakeCompleter{content: `{"not":"an array"`}},
		{"empty array", &fakeCompleter{content: `[]`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGateway(tt.fake, nil)
			routes := g.FetchRouteOptions(context.Background(), "A", "B", types.LangEnglish, types.ModeCar)

			require.Len(t, routes, 1, "failures must yield exactly the fallback route")
			assert.Equal(t, "r1", routes[0].ID)
			assert.Equal(t, "Recommended Route", routes[0].Name)
			assert.Equal(t, "Unknown", routes[0].Distance)
			assert.NotNil(t, routes[0].Highlights)
			assert.Empty(t, routes[0].Highlights)
		})
	}
}

func TestFetchRouteOptionsFallbackVietnamese(t *testing.T) {
	g := NewGateway(&fakeCompleter{err: errors.New("boom")}, nil)
	routes := g.FetchRouteOptions(context.Background(), "A", "B", types.LangVietnamese, types.ModeCar)

	require.Len(t, routes, 1)
	assert.Equal(t, "Tuyến đường đề xuất", routes[0].Name)
}

func TestFetchItineraryEnrichment(t *testing.T) {
	fake := &fakeCompleter{content: `[
		{"day":1,"time":"07:00 AM","title":"Khởi hành","description":"Leave the city",
		 "type":"DEPARTURE","locationName":"Hồ Chí Minh","costPerAdult":0,"costPerChild":0,
		 "coordinates":{"lat":10.77,"lng":106.7},"alternatives":[]},
		{"day":0,"time":"12:00 PM","title":"Quán cơm niêu","description":"Claypot rice lunch",
		 "type":"FOOD","locationName":"Bảo Lộc","costPerAdult":150000,"costPerChild":100000,
		 "coordinates":{"lat":11.55,"lng":107.81},
		 "alternatives":[
			{"title":"Bánh mì stand","description":"Quick bite","costPerAdult":40000,
			 "costPerChild":30000,"locationName":"Bảo Lộc"}
		 ]}
	]`}

	g := NewGateway(fake, nil)
	items := g.FetchItinerary(context.Background(), "Hồ Chí Minh", "Đà Lạt", "Highland Route",
		types.LangVietnamese, types.ModeCar, 2)

	require.Len(t, items, 2)

	// Absent or zero day defaults to 1.
	assert.Equal(t, 1, items[1].Day)

	// Every stop and alternative gets a synthesized image.
	assert.Contains(t, items[0].ImageURL, "tse3.mm.bing.net/th?q=")
	assert.Contains(t, items[0].ImageURL, "w=800&h=600&c=7&rs=1")
	require.Len(t, items[1].Alternatives, 1)
	assert.Contains(t, items[1].Alternatives[0].ImageURL, "tse3.mm.bing.net")

	// The detected region feeds the image query.
	assert.Contains(t, items[0].ImageURL, "Vietnam")
}

func TestFetchItineraryFailureYieldsEmpty(t *testing.T) {
	g := NewGateway(&fakeCompleter{err: errors.New("timeout")}, nil)
	items := g.FetchItinerary(context.Background(), "A", "B", "Route",
		types.LangEnglish, types.ModeCar, 1)

	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestFetchHotelRecommendations(t *testing.T) {
	fake := &fakeCompleter{content: `[
		{"id":"h1","name":"Dalat Palace","rating":"4.8/5","pricePerNight":2500000,
		 "totalPrice":5000000,"description":"Colonial heritage hotel",
		 "amenities":["Wifi","Breakfast","Spa"],"location":"City center"}
	]`}

	g := NewGateway(fake, nil)
	hotels := g.FetchHotelRecommendations(context.Background(), "Đà Lạt", 2,
		types.HotelBudget{Min: 1000000, Max: 3000000}, types.LangEnglish,
		[]types.TripStyle{types.StyleNature})

	require.Len(t, hotels, 1)
	assert.Equal(t, "Dalat Palace", hotels[0].Name)
	assert.InDelta(t, 5000000, hotels[0].TotalPrice, 1e-9)
	assert.Contains(t, hotels[0].ImageURL, "tse3.mm.bing.net")

	require.Len(t, fake.prompts, 1)
	assert.Contains(t, fake.prompts[0], "Đà Lạt")
}

func TestFetchFlightOptions(t *testing.T) {
	fake := &fakeCompleter{content: `[
		{"id":"f1","airline":"Vietnam Airlines","flightNumber":"VN781",
		 "departureTime":"09:30","arrivalTime":"21:45","duration":"8h 15m","stops":0,
		 "pricePerAdult":12000000,"pricePerChild":9000000,"cabinClass":"Economy"},
		{"id":"f2","airline":"Jetstar","flightNumber":"JQ62",
		 "departureTime":"11:00","arrivalTime":"01:20","duration":"9h 20m","stops":1,
		 "stopDescription":"Via Singapore","pricePerAdult":8500000,"pricePerChild":6500000,
		 "cabinClass":"Economy"}
	]`}

	g := NewGateway(fake, nil)
	flights := g.FetchFlightOptions(context.Background(), "Hồ Chí Minh", "Sydney",
		"2026-01-10", "2026-01-14", types.LangEnglish)

	require.Len(t, flights, 2)
	assert.Equal(t, 0, flights[0].Stops)
	assert.Equal(t, "Via Singapore", flights[1].StopDescription)

	require.Len(t, fake.prompts, 1)
	assert.Contains(t, fake.prompts[0], "2026-01-10")
	assert.Contains(t, fake.prompts[0], "2026-01-14")
}

func TestFetchFlightOptionsFailureYieldsEmpty(t *testing.T) {
	g := NewGateway(&fakeCompleter{content: "not json"}, nil)
	flights := g.FetchFlightOptions(context.Background(), "A", "B", "2026-01-10", "", types.LangEnglish)
	assert.NotNil(t, flights)
	assert.Empty(t, flights)
}

func TestLocationImageURL(t *testing.T) {
	url := LocationImageURL("Hồ Xuân Hương", "Đà Lạt", "Vietnam")
	assert.True(t, strings.HasPrefix(url, "https://tse3.mm.bing.net/th?q="))
	assert.Contains(t, url, "&w=800&h=600&c=7&rs=1")
	assert.Contains(t, url, "travel+scenery")

	// Country defaults to a generic travel keyword.
	assert.Contains(t, LocationImageURL("Opera House", "Sydney", ""), "travel")
}
