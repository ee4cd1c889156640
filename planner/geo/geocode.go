// Copyright 2025 TripAI
// SPDX-License-Identifier: Apache-2.0

// Package geo holds the map collaborators: reverse geocoding through
// OpenStreetMap Nominatim and road geometry through the public OSRM
// router. Both are best-effort; callers treat failures as non-fatal.
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
)

// Error codes for geo lookups.
const (
	CodeGeocodeFailed       = "GEOCODE_FAILED"
	CodeTimeout             = "TIMEOUT"
	CodePositionUnavailable = "POSITION_UNAVAILABLE"
)

// Error is a categorized geo failure. Message is English; LocalizedMessage
// returns the user-facing text per language code.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LocalizedMessage returns the user-facing message for the given
// language ("vi" or "en").
func (e *Error) LocalizedMessage(lang string) string {
	if lang != "vi" {
		return e.Message
	}
	switch e.Code {
	case CodeTimeout:
		return "Yêu cầu vị trí đã hết thời gian chờ"
	case CodePositionUnavailable:
		return "Không xác định được vị trí"
	default:
		return "Không lấy được tên địa điểm"
	}
}

const (
	// DefaultNominatimURL is the public Nominatim endpoint.
	DefaultNominatimURL = "https://nominatim.openstreetmap.org"

	// geocodeTimeout matches the upstream position-request budget.
	geocodeTimeout = 10 * time.Second

	userAgent = "TripAI-Planner"
)

// GeocoderConfig configures the reverse geocoder.
type GeocoderConfig struct {
	BaseURL string        // Optional: Nominatim base URL
	Timeout time.Duration // Optional: HTTP timeout (default: 10s)
}

// Geocoder resolves coordinates to place names via Nominatim.
type Geocoder struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// Location is a reverse-geocoded point.
type Location struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	DisplayName string  `json:"displayName"`
	City        string  `json:"city,omitempty"`
	Country     string  `json:"country,omitempty"`
	CountryCode string  `json:"countryCode,omitempty"`
}

// NewGeocoder creates a reverse geocoder.
func NewGeocoder(cfg GeocoderConfig, log *logger.Logger) *Geocoder {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultNominatimURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = geocodeTimeout
	}
	if log == nil {
		log = logger.New("geocoder")
	}
	return &Geocoder{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

type nominatimResponse struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		City         string `json:"city"`
		Town         string `json:"town"`
		Municipality string `json:"municipality"`
		County       string `json:"county"`
		State        string `json:"state"`
		Province     string `json:"province"`
		Country      string `json:"country"`
		CountryCode  string `json:"country_code"`
	} `json:"address"`
}

// Reverse resolves lat/lng to a named location.
func (g *Geocoder) Reverse(ctx context.Context, lat, lng float64) (*Location, error) {
	url := fmt.Sprintf("%s/reverse?format=json&lat=%f&lon=%f&zoom=10&addressdetails=1",
		g.baseURL, lat, lng)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, &Error{Code: CodeGeocodeFailed, Message: "failed to build geocode request"}
	}
	req.Header.Set("Accept-Language", "vi,en")
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.log.ErrorWithErr("", logger.RequestIDFromContext(ctx), "reverse geocode failed", err, nil)
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, &Error{Code: CodeTimeout, Message: "location request timed out"}
		}
		return nil, &Error{Code: CodeGeocodeFailed, Message: "failed to get location name"}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Code: CodeGeocodeFailed, Message: fmt.Sprintf("geocoding request failed (status %d)", resp.StatusCode)}
	}

	var data nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, &Error{Code: CodeGeocodeFailed, Message: "failed to parse geocode response"}
	}

	addr := data.Address
	city := firstNonEmpty(addr.City, addr.Town, addr.Municipality, addr.County, addr.State, addr.Province)

	displayName := city
	if displayName == "" {
		if i := strings.Index(data.DisplayName, ","); i > 0 {
			displayName = data.DisplayName[:i]
		} else {
			displayName = data.DisplayName
		}
	}
	if displayName == "" {
		displayName = "Unknown Location"
	}

	return &Location{
		Lat:         lat,
		Lng:         lng,
		DisplayName: displayName,
		City:        city,
		Country:     addr.Country,
		CountryCode: strings.ToUpper(addr.CountryCode),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
