// Copyright 2025 TripAI
// SPDX-License-Identifier: Apache-2.0

// Package places serves the static autocomplete datasets: a small
// population-sorted "popular" slice loaded eagerly and the full
// Asia-Pacific slice loaded lazily on first need. Loads are memoized for
// the process lifetime and never surface a hard error; a hardcoded list of
// well-known cities stands in when the data files are unavailable.
package places

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"tripai/backend/shared/logger"
	"tripai/backend/shared/types"
)

const (
	popularFile = "places-popular.json"
	allFile     = "places-asia-pacific.json"
)

// Store loads and caches the place datasets. Safe for concurrent use;
// concurrent loads of the same dataset are collapsed into one read.
type Store struct {
	dataDir string
	log     *logger.Logger

	mu      sync.RWMutex
	popular []types.Place
	all     []types.Place

	group singleflight.Group
	loads int64 // dataset reads actually performed, for tests
}

// NewStore creates a Store reading datasets from dataDir.
func NewStore(dataDir string, log *logger.Logger) *Store {
	if log == nil {
		log = logger.New("places")
	}
	return &Store{dataDir: dataDir, log: log}
}

// LoadPopular returns the popular-places slice, reading it on first use.
func (s *Store) LoadPopular(ctx context.Context) []types.Place {
	s.mu.RLock()
	cached := s.popular
	s.mu.RUnlock()
	if cached != nil {
		return cached
	}

	result, _, _ := s.group.Do("popular", func() (interface{}, error) {
		loaded, err := s.readDataset(popularFile)
		if err != nil {
			s.log.Warn("", "", "popular places load failed, using fallback", map[string]interface{}{
				"error": err.Error(),
			})
			loaded = FallbackPlaces()
		}
		s.mu.Lock()
		s.popular = loaded
		s.mu.Unlock()
		return loaded, nil
	})
	return result.([]types.Place)
}

// LoadAll returns the full regional dataset, reading it on first use.
// Callers racing on the first load all observe the same resolved slice.
func (s *Store) LoadAll(ctx context.Context) []types.Place {
	s.mu.RLock()
	cached := s.all
	s.mu.RUnlock()
	if cached != nil {
		return cached
	}

	result, _, _ := s.group.Do("all", func() (interface{}, error) {
		loaded, err := s.readDataset(allFile)
		if err != nil {
			s.log.Warn("", "", "full places load failed, degrading to popular set", map[string]interface{}{
				"error": err.Error(),
			})
			// Degrade to whatever we already have rather than fail.
			loaded = s.LoadPopular(ctx)
		}
		s.mu.Lock()
		s.all = loaded
		s.mu.Unlock()
		return loaded, nil
	})
	return result.([]types.Place)
}

// ByID looks a place up by dataset id across the loaded slices.
func (s *Store) ByID(ctx context.Context, id int64) (types.Place, bool) {
	s.mu.RLock()
	candidates := s.all
	if candidates == nil {
		candidates = s.popular
	}
	s.mu.RUnlock()

	if candidates == nil {
		candidates = s.LoadPopular(ctx)
	}
	for _, p := range candidates {
		if p.ID == id {
			return p, true
		}
	}
	return types.Place{}, false
}

func (s *Store) readDataset(name string) ([]types.Place, error) {
	atomic.AddInt64(&s.loads, 1)

	data, err := os.ReadFile(filepath.Join(s.dataDir, name))
	if err != nil {
		return nil, err
	}

	var loaded []types.Place
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, err
	}
	return loaded, nil
}

// FormatDisplay renders a place as "Name, Country" in the given language.
func FormatDisplay(p types.Place, lang types.Language) string {
	country := p.Country.En
	if lang == types.LangVietnamese {
		country = p.Country.Vi
	}
	return p.Name + ", " + country
}

// FallbackPlaces is the hardcoded list used when the data files cannot be
// read, so autocomplete degrades instead of erroring.
func FallbackPlaces() []types.Place {
	vn := types.CountryName{En: "Vietnam", Vi: "Việt Nam"}
	return []types.Place{
		{ID: 1, Name: "Hồ Chí Minh City", AsciiName: "Ho Chi Minh City", CountryCode: "VN", Country: vn, Lat: 10.8231, Lng: 106.6297, Population: 8993082},
		{ID: 2, Name: "Hà Nội", AsciiName: "Hanoi", CountryCode: "VN", Country: vn, Lat: 21.0285, Lng: 105.8542, Population: 8053663},
		{ID: 3, Name: "Đà Nẵng", AsciiName: "Da Nang", CountryCode: "VN", Country: vn, Lat: 16.0544, Lng: 108.2022, Population: 1134310},
		{ID: 4, Name: "Bangkok", AsciiName: "Bangkok", CountryCode: "TH", Country: types.CountryName{En: "Thailand", Vi: "Thái Lan"}, Lat: 13.7563, Lng: 100.5018, Population: 10539000},
		{ID: 5, Name: "Singapore", AsciiName: "Singapore", CountryCode: "SG", Country: types.CountryName{En: "Singapore", Vi: "Singapore"}, Lat: 1.3521, Lng: 103.8198, Population: 5638700},
		{ID: 6, Name: "Tokyo", AsciiName: "Tokyo", CountryCode: "JP", Country: types.CountryName{En: "Japan", Vi: "Nhật Bản"}, Lat: 35.6762, Lng: 139.6503, Population: 13960000},
		{ID: 7, Name: "Seoul", AsciiName: "Seoul", CountryCode: "KR", Country: types.CountryName{En: "South Korea", Vi: "Hàn Quốc"}, Lat: 37.5665, Lng: 126.978, Population: 9776000},
		{ID: 8, Name: "Sydney", AsciiName: "Sydney", CountryCode: "AU", Country: types.CountryName{En: "Australia", Vi: "Úc"}, Lat: -33.8688, Lng: 151.2093, Population: 5312000},
		{ID: 9, Name: "Auckland", AsciiName: "Auckland", CountryCode: "NZ", Country: types.CountryName{En: "New Zealand", Vi: "New Zealand"}, Lat: -36.8509, Lng: 174.7645, Population: 1657000},
		{ID: 10, Name: "Kuala Lumpur", AsciiName: "Kuala Lumpur", CountryCode: "MY", Country: types.CountryName{En: "Malaysia", Vi: "Malaysia"}, Lat: 3.139, Lng: 101.6869, Population: 1768000},
		{ID: 11, Name: "Đà Lạt", AsciiName: "Da Lat", CountryCode: "VN", Country: vn, Lat: 11.9404, Lng: 108.4583, Population: 422000},
		{ID: 12, Name: "Nha Trang", AsciiName: "Nha Trang", CountryCode: "VN", Country: vn, Lat: 12.2388, Lng: 109.1967, Population: 392000},
		{ID: 13, Name: "Huế", AsciiName: "Hue", CountryCode: "VN", Country: vn, Lat: 16.4637, Lng: 107.5909, Population: 354000},
		{ID: 14, Name: "Hội An", AsciiName: "Hoi An", CountryCode: "VN", Country: vn, Lat: 15.8801, Lng: 108.338, Population: 120000},
		{ID: 15, Name: "Sapa", AsciiName: "Sapa", CountryCode: "VN", Country: vn, Lat: 22.3364, Lng: 103.8438, Population: 60000},
	}
}
