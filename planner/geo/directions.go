// Copyright 2025 TripAI
// SPDX-License-Identifier: Apache-2.0

package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tripai/backend/shared/logger"
	"tripai/backend/shared/types"
)

// DefaultOSRMURL is the public OSRM demo router.
const DefaultOSRMURL = "https://router.project-osrm.org"

// DirectionsConfig configures the OSRM client.
type DirectionsConfig struct {
	BaseURL string
	Timeout time.Duration
}

// Directions fetches driving geometry between ordered waypoints. The
// geometry is opaque GeoJSON passed through to the map layer.
type Directions struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// RouteGeometry is one driving route. Geometry is raw GeoJSON.
type RouteGeometry struct {
	Geometry json.RawMessage `json:"geometry"`
	Distance float64         `json:"distance"` // meters
	Duration float64         `json:"duration"` // seconds
}

// NewDirections creates an OSRM directions client.
func NewDirections(cfg DirectionsConfig, log *logger.Logger) *Directions {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOSRMURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if log == nil {
		log = logger.New("directions")
	}
	return &Directions{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Geometry json.RawMessage `json:"geometry"`
		Distance float64         `json:"distance"`
		Duration float64         `json:"duration"`
	} `json:"routes"`
}

// Route returns driving geometry through the given waypoints in order.
// The public demo server limits URL length; typical itineraries of
// 6-10 points stay well within it.
func (d *Directions) Route(ctx context.Context, points []types.Coordinates) (*RouteGeometry, error) {
	if len(points) < 2 {
		return nil, errors.New("directions require at least two waypoints")
	}

	// OSRM expects lng,lat pairs.
	coords := make([]string, len(points))
	for i, p := range points {
		coords[i] = fmt.Sprintf("%f,%f", p.Lng, p.Lat)
	}
	url := fmt.Sprintf("%s/route/v1/driving/%s?overview=full&geometries=geojson",
		d.baseURL, strings.Join(coords, ";"))

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build directions request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directions request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directions request failed (status %d)", resp.StatusCode)
	}

	var data osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse directions response: %w", err)
	}
	if data.Code != "Ok" || len(data.Routes) == 0 {
		return nil, fmt.Errorf("no route found (code %s)", data.Code)
	}

	r := data.Routes[0]
	return &RouteGeometry{
		Geometry: r.Geometry,
		Distance: r.Distance,
		Duration: r.Duration,
	}, nil
}
