// Copyright 2025 TripAI
// SPDX-License-Identifier: Apache-2.0

package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripai/backend/shared/types"
)

func TestReverseGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "10", r.URL.Query().Get("zoom"))
		assert.Equal(t, "TripAI-Planner", r.Header.Get("User-Agent"))
		assert.Equal(t, "vi,en", r.Header.Get("Accept-Language"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"display_name": "Đà Lạt, Lâm Đồng, Việt Nam",
			"address": {
				"city": "Đà Lạt",
				"country": "Việt Nam",
				"country_code": "vn"
			}
		}`))
	}))
	defer srv.Close()

	g := NewGeocoder(GeocoderConfig{BaseURL: srv.URL}, nil)
	loc, err := g.Reverse(context.Background(), 11.9404, 108.4583)
	require.NoError(t, err)

	assert.Equal(t, "Đà Lạt", loc.DisplayName)
	assert.Equal(t, "Đà Lạt", loc.City)
	assert.Equal(t, "VN", loc.CountryCode)
	assert.InDelta(t, 11.9404, loc.Lat, 1e-6)
}

func TestReverseGeocodeCityFallbackChain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"display_name": "Somewhere Rural, Далеко, Earth",
			"address": {"county": "Rural County", "country": "Earth"}
		}`))
	}))
	defer srv.Close()

	g := NewGeocoder(GeocoderConfig{BaseURL: srv.URL}, nil)
	loc, err := g.Reverse(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "Rural County", loc.City)
	assert.Equal(t, "Rural County", loc.DisplayName)
}

func TestReverseGeocodeDisplayNameFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"display_name": "Mũi Né, Bình Thuận", "address": {}}`))
	}))
	defer srv.Close()

	g := NewGeocoder(GeocoderConfig{BaseURL: srv.URL}, nil)
	loc, err := g.Reverse(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "Mũi Né", loc.DisplayName)
}

func TestReverseGeocodeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	g := NewGeocoder(GeocoderConfig{BaseURL: srv.URL}, nil)
	_, err := g.Reverse(context.Background(), 1, 2)
	require.Error(t, err)

	geoErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, CodeGeocodeFailed, geoErr.Code)
}

func TestReverseGeocodeTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	g := NewGeocoder(GeocoderConfig{BaseURL: srv.URL, Timeout: 20 * time.Millisecond}, nil)
	_, err := g.Reverse(context.Background(), 1, 2)
	require.Error(t, err)

	geoErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, CodeTimeout, geoErr.Code)
}

func TestErrorLocalizedMessage(t *testing.T) {
	e := &Error{Code: CodeTimeout, Message: "location request timed out"}
	assert.Equal(t, "location request timed out", e.LocalizedMessage("en"))
	assert.Equal(t, "Yêu cầu vị trí đã hết thời gian chờ", e.LocalizedMessage("vi"))

	e = &Error{Code: CodeGeocodeFailed, Message: "failed to get location name"}
	assert.Equal(t, "Không lấy được tên địa điểm", e.LocalizedMessage("vi"))
}

func TestDirectionsRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Waypoints are lng,lat ordered.
		assert.Contains(t, r.URL.Path, "/route/v1/driving/106.700000,10.770000;108.458300,11.940400")
		assert.Equal(t, "full", r.URL.Query().Get("overview"))
		assert.Equal(t, "geojson", r.URL.Query().Get("geometries"))

		_, _ = w.Write([]byte(`{
			"code": "Ok",
			"routes": [{
				"geometry": {"type":"LineString","coordinates":[[106.7,10.77],[108.4583,11.9404]]},
				"distance": 308000.5,
				"duration": 21600
			}]
		}`))
	}))
	defer srv.Close()

	d := NewDirections(DirectionsConfig{BaseURL: srv.URL}, nil)
	route, err := d.Route(context.Background(), []types.Coordinates{
		{Lat: 10.77, Lng: 106.7},
		{Lat: 11.9404, Lng: 108.4583},
	})
	require.NoError(t, err)
	assert.InDelta(t, 308000.5, route.Distance, 1e-6)
	assert.Contains(t, string(route.Geometry), "LineString")
}

func TestDirectionsRequiresTwoWaypoints(t *testing.T) {
	d := NewDirections(DirectionsConfig{}, nil)
	_, err := d.Route(context.Background(), []types.Coordinates{{Lat: 1, Lng: 2}})
	assert.Error(t, err)
}

func TestDirectionsNoRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code": "NoRoute", "routes": []}`))
	}))
	defer srv.Close()

	d := NewDirections(DirectionsConfig{BaseURL: srv.URL}, nil)
	_, err := d.Route(context.Background(), []types.Coordinates{
		{Lat: 1, Lng: 2}, {Lat: 3, Lng: 4},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NoRoute")
}
