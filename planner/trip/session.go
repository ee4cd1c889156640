// Copyright 2025 TripAI
// SPDX-License-Identifier: Apache-2.0

// Package trip is the coordination core of the planner. A Session holds
// one user's planning state behind a mutex and drives the AI gateway;
// the Manager keys sessions by ID and expires idle ones.
//
// Action methods follow one contract throughout: fetch failures degrade
// to empty results, never to an error, and no loading flag is ever left
// stuck. Errors are returned only for invalid caller input.
package trip

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"tripai/backend/planner/prompt"
	"tripai/backend/shared/logger"
	"tripai/backend/shared/types"
)

var (
	ErrMissingEndpoints = errors.New("origin and destination are required")
	ErrUnknownRoute     = errors.New("unknown route id")
	ErrUnknownHotel     = errors.New("unknown hotel id")
	ErrUnknownFlight    = errors.New("unknown flight id")
	ErrIndexOutOfRange  = errors.New("itinerary index out of range")
	ErrBadAlternative   = errors.New("alternative index out of range")
	ErrBadDay           = errors.New("day must be at least 1")
)

// Gateway is the fetch surface a session drives. All methods degrade to
// fallback values instead of returning errors.
type Gateway interface {
	FetchRouteOptions(ctx context.Context, origin, destination string, lang types.Language, travelMode types.TravelMode) []types.RouteOption
	FetchItinerary(ctx context.Context, origin, destination, routeName string, lang types.Language, travelMode types.TravelMode, nights int) []types.TimelineItem
	FetchHotelRecommendations(ctx context.Context, destination string, nights int, budget types.HotelBudget, lang types.Language, tripStyles []types.TripStyle) []types.HotelRecommendation
	FetchFlightOptions(ctx context.Context, origin, destination, departureDate, returnDate string, lang types.Language) []types.FlightOption
}

// LoadingFlags exposes one in-flight indicator per fetched category so
// the view can render independent spinners.
type LoadingFlags struct {
	Routes    bool `json:"routes"`
	Itinerary bool `json:"itinerary"`
	Hotels    bool `json:"hotels"`
	Flights   bool `json:"flights"`
}

// TripDetails are the extra inputs of the detailed route selection.
type TripDetails struct {
	DepartureDate string            `json:"departureDate"`
	Nights        int               `json:"nights"`
	HotelBudget   types.HotelBudget `json:"hotelBudget"`
	Travelers     types.Travelers   `json:"travelers"`
}

// Session is one user's planning state. All fields are guarded by mu;
// fetches run outside the lock and re-acquire it to apply results.
type Session struct {
	id      string
	gateway Gateway
	log     *logger.Logger

	mu             sync.Mutex
	lang           types.Language
	params         types.SearchParams
	routes         []types.RouteOption
	selectedRoute  *types.RouteOption
	itinerary      []types.TimelineItem
	hotels         []types.HotelRecommendation
	flights        []types.FlightOption
	navigationPath *types.NavigationPath
	loading        LoadingFlags
	selectedDay    int

	selectedCostItems    map[int]bool
	selectedAlternatives map[int]int
	selectedHotel        *types.HotelRecommendation
	selectedFlight       *types.FlightOption

	// Monotonic tokens invalidate in-flight fetches that a newer action
	// superseded; stale results are discarded instead of applied.
	searchToken uint64
	detailToken uint64

	createdAt  time.Time
	lastActive time.Time
}

// NewSession creates a session with empty state.
func NewSession(id string, gateway Gateway, lang types.Language, log *logger.Logger) *Session {
	if !lang.Valid() {
		lang = types.LangVietnamese
	}
	if log == nil {
		log = logger.New("trip-session")
	}
	now := time.Now()
	return &Session{
		id:                   id,
		gateway:              gateway,
		log:                  log,
		lang:                 lang,
		selectedDay:          1,
		selectedCostItems:    make(map[int]bool),
		selectedAlternatives: make(map[int]int),
		createdAt:            now,
		lastActive:           now,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// LastActive returns the time of the most recent action.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// SetLanguage switches the output language for subsequent fetches.
func (s *Session) SetLanguage(lang types.Language) error {
	if !lang.Valid() {
		return errors.New("unsupported language")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	s.lang = lang
	return nil
}

func (s *Session) touchLocked() {
	s.lastActive = time.Now()
}

func (s *Session) resetCostStateLocked() {
	s.selectedCostItems = make(map[int]bool)
	s.selectedAlternatives = make(map[int]int)
	s.selectedHotel = nil
	s.selectedFlight = nil
}

// Search replaces the search parameters, clears all downstream state and
// fetches route options. Blocks until the fetch settles. A search issued
// while another is in flight wins: the older result is discarded.
func (s *Session) Search(ctx context.Context, params types.SearchParams) error {
	if params.Origin == "" || params.Destination == "" {
		return ErrMissingEndpoints
	}
	if params.TravelMode == "" {
		params.TravelMode = types.ModeCar
	}

	s.mu.Lock()
	s.touchLocked()
	s.params = params
	s.routes = nil
	s.selectedRoute = nil
	s.itinerary = nil
	s.hotels = nil
	s.flights = nil
	s.navigationPath = nil
	s.selectedDay = 1
	s.loading.Routes = true
	s.searchToken++
	s.detailToken++
	token := s.searchToken
	lang := s.lang
	s.mu.Unlock()

	routes := s.gateway.FetchRouteOptions(ctx, params.Origin, params.Destination, lang, params.TravelMode)

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.searchToken {
		s.log.Debug(s.id, logger.RequestIDFromContext(ctx), "discarding superseded route result", nil)
		return nil
	}
	s.routes = routes
	s.loading.Routes = false
	return nil
}

// SelectRoute fetches a one-night itinerary for the chosen route. Hotels
// and flights are not part of this flow.
func (s *Session) SelectRoute(ctx context.Context, routeID string) error {
	s.mu.Lock()
	route, ok := s.findRouteLocked(routeID)
	if !ok {
		s.mu.Unlock()
		return ErrUnknownRoute
	}
	s.touchLocked()
	s.selectedRoute = &route
	s.itinerary = nil
	s.navigationPath = nil
	s.selectedDay = 1
	s.loading.Itinerary = true
	s.detailToken++
	token := s.detailToken
	params := s.params
	lang := s.lang
	s.mu.Unlock()

	items := s.gateway.FetchItinerary(ctx, params.Origin, params.Destination, route.Name, lang, params.TravelMode, 1)

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.detailToken {
		s.log.Debug(s.id, logger.RequestIDFromContext(ctx), "discarding superseded itinerary result", nil)
		return nil
	}
	s.itinerary = s.repairItinerary(ctx, items, 2)
	s.loading.Itinerary = false
	return nil
}

// SelectRouteWithDetails runs the full trip flow: itinerary and hotels
// always, flights only when the travel mode is PLANE or the endpoints
// require flying. All requested fetches are joined and their results
// applied as a single state update; nothing is visible partially.
func (s *Session) SelectRouteWithDetails(ctx context.Context, routeID string, details TripDetails) error {
	if details.Nights < 1 {
		details.Nights = 1
	}

	s.mu.Lock()
	route, ok := s.findRouteLocked(routeID)
	if !ok {
		s.mu.Unlock()
		return ErrUnknownRoute
	}
	s.touchLocked()
	s.params.DepartureDate = details.DepartureDate
	s.params.Nights = details.Nights
	s.params.HotelBudget = &details.HotelBudget
	s.params.Travelers = &details.Travelers
	s.selectedRoute = &route
	s.itinerary = nil
	s.hotels = nil
	s.flights = nil
	s.navigationPath = nil
	s.selectedDay = 1
	s.resetCostStateLocked()

	params := s.params
	lang := s.lang
	needsFlights := params.TravelMode == types.ModePlane ||
		prompt.RequiresFlying(params.Origin, params.Destination)

	s.loading.Itinerary = true
	s.loading.Hotels = true
	s.loading.Flights = needsFlights
	s.detailToken++
	token := s.detailToken
	s.mu.Unlock()

	returnDate := returnDateAfter(details.DepartureDate, details.Nights)

	var (
		items   []types.TimelineItem
		hotels  []types.HotelRecommendation
		flights []types.FlightOption
	)

	// The join set is built up front; a fetch not in it is never issued.
	fetches := []struct {
		name string
		run  func(context.Context)
	}{
		{"itinerary", func(ctx context.Context) {
			items = s.gateway.FetchItinerary(ctx, params.Origin, params.Destination, route.Name, lang, params.TravelMode, details.Nights)
		}},
		{"hotels", func(ctx context.Context) {
			hotels = s.gateway.FetchHotelRecommendations(ctx, params.Destination, details.Nights, details.HotelBudget, lang, params.TripStyles)
		}},
	}
	if needsFlights {
		fetches = append(fetches, struct {
			name string
			run  func(context.Context)
		}{"flights", func(ctx context.Context) {
			flights = s.gateway.FetchFlightOptions(ctx, params.Origin, params.Destination, details.DepartureDate, returnDate, lang)
		}})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, f := range fetches {
		f := f
		g.Go(func() error {
			f.run(gctx)
			return nil
		})
	}
	// Fetches never return errors; Wait is the join barrier.
	_ = g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.detailToken {
		s.log.Debug(s.id, logger.RequestIDFromContext(ctx), "discarding superseded trip result", nil)
		return nil
	}
	s.itinerary = s.repairItinerary(ctx, items, details.Nights+1)
	s.hotels = hotels
	if needsFlights {
		s.flights = flights
	} else {
		s.flights = []types.FlightOption{}
	}
	s.loading.Itinerary = false
	s.loading.Hotels = false
	s.loading.Flights = false
	return nil
}

func (s *Session) findRouteLocked(routeID string) (types.RouteOption, bool) {
	for _, r := range s.routes {
		if r.ID == routeID {
			return r, true
		}
	}
	return types.RouteOption{}, false
}

// returnDateAfter computes the flight return date: departure plus the
// number of nights plus one travel day. Empty on unparseable input.
func returnDateAfter(departureDate string, nights int) string {
	d, err := time.Parse("2006-01-02", departureDate)
	if err != nil {
		return ""
	}
	return d.AddDate(0, 0, nights+1).Format("2006-01-02")
}

// NavigateTo points the navigation path from the trip's first stop to
// the stop at index.
func (s *Session) NavigateTo(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	if len(s.itinerary) == 0 || index < 0 || index >= len(s.itinerary) {
		return ErrIndexOutOfRange
	}
	s.navigationPath = &types.NavigationPath{
		From: s.itinerary[0],
		To:   s.itinerary[index],
	}
	return nil
}

// BackToRoutes returns to the route list, keeping routes and search
// parameters but dropping the selected route and everything below it.
func (s *Session) BackToRoutes() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	s.detailToken++
	s.selectedRoute = nil
	s.itinerary = nil
	s.hotels = nil
	s.flights = nil
	s.navigationPath = nil
	s.selectedDay = 1
	s.loading.Itinerary = false
	s.loading.Hotels = false
	s.loading.Flights = false
	s.resetCostStateLocked()
}

// BackToSearch additionally clears the route list.
func (s *Session) BackToSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	s.searchToken++
	s.detailToken++
	s.routes = nil
	s.selectedRoute = nil
	s.itinerary = nil
	s.hotels = nil
	s.flights = nil
	s.navigationPath = nil
	s.selectedDay = 1
	s.loading = LoadingFlags{}
	s.resetCostStateLocked()
}

// Reset clears the whole session including the search parameters.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	s.searchToken++
	s.detailToken++
	s.params = types.SearchParams{}
	s.routes = nil
	s.selectedRoute = nil
	s.itinerary = nil
	s.hotels = nil
	s.flights = nil
	s.navigationPath = nil
	s.selectedDay = 1
	s.loading = LoadingFlags{}
	s.resetCostStateLocked()
}

// ToggleCostItem flips one itinerary index in and out of the running
// cost total.
func (s *Session) ToggleCostItem(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	if index < 0 || index >= len(s.itinerary) {
		return ErrIndexOutOfRange
	}
	if s.selectedCostItems[index] {
		delete(s.selectedCostItems, index)
	} else {
		s.selectedCostItems[index] = true
	}
	return nil
}

// SelectAlternative chooses the alternative at altIndex for the slot at
// itemIndex; -1 restores the slot's original option.
func (s *Session) SelectAlternative(itemIndex, altIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	if itemIndex < 0 || itemIndex >= len(s.itinerary) {
		return ErrIndexOutOfRange
	}
	if altIndex < -1 || altIndex >= len(s.itinerary[itemIndex].Alternatives) {
		return ErrBadAlternative
	}
	s.selectedAlternatives[itemIndex] = altIndex
	return nil
}

// SelectHotel selects the hotel with the given ID; "" clears the choice.
func (s *Session) SelectHotel(hotelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	if hotelID == "" {
		s.selectedHotel = nil
		return nil
	}
	for i := range s.hotels {
		if s.hotels[i].ID == hotelID {
			h := s.hotels[i]
			s.selectedHotel = &h
			return nil
		}
	}
	return ErrUnknownHotel
}

// SelectFlight selects the flight with the given ID; "" clears the choice.
func (s *Session) SelectFlight(flightID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	if flightID == "" {
		s.selectedFlight = nil
		return nil
	}
	for i := range s.flights {
		if s.flights[i].ID == flightID {
			f := s.flights[i]
			s.selectedFlight = &f
			return nil
		}
	}
	return ErrUnknownFlight
}

// SetSelectedDay moves the timeline focus to the given day.
func (s *Session) SetSelectedDay(day int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	if day < 1 {
		return ErrBadDay
	}
	s.selectedDay = day
	return nil
}

// Snapshot is the view-layer read model of a session, including the
// derived cost breakdown.
type Snapshot struct {
	ID                   string                      `json:"id"`
	Language             types.Language              `json:"language"`
	SearchParams         types.SearchParams          `json:"searchParams"`
	Routes               []types.RouteOption         `json:"routes"`
	SelectedRoute        *types.RouteOption          `json:"selectedRoute,omitempty"`
	Itinerary            []types.TimelineItem        `json:"itinerary"`
	Hotels               []types.HotelRecommendation `json:"hotels"`
	Flights              []types.FlightOption        `json:"flights"`
	NavigationPath       *types.NavigationPath       `json:"navigationPath,omitempty"`
	Loading              LoadingFlags                `json:"loading"`
	SelectedDay          int                         `json:"selectedDay"`
	SelectedCostItems    []int                       `json:"selectedCostItems"`
	SelectedAlternatives map[int]int                 `json:"selectedAlternatives"`
	SelectedHotel        *types.HotelRecommendation  `json:"selectedHotel,omitempty"`
	SelectedFlight       *types.FlightOption         `json:"selectedFlight,omitempty"`
	Cost                 CostBreakdown               `json:"cost"`
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	selected := make([]int, 0, len(s.selectedCostItems))
	for idx := range s.selectedCostItems {
		selected = append(selected, idx)
	}
	sort.Ints(selected)

	alternatives := make(map[int]int, len(s.selectedAlternatives))
	for k, v := range s.selectedAlternatives {
		alternatives[k] = v
	}

	return Snapshot{
		ID:                   s.id,
		Language:             s.lang,
		SearchParams:         s.params,
		Routes:               append([]types.RouteOption(nil), s.routes...),
		SelectedRoute:        s.selectedRoute,
		Itinerary:            append([]types.TimelineItem(nil), s.itinerary...),
		Hotels:               append([]types.HotelRecommendation(nil), s.hotels...),
		Flights:              append([]types.FlightOption(nil), s.flights...),
		NavigationPath:       s.navigationPath,
		Loading:              s.loading,
		SelectedDay:          s.selectedDay,
		SelectedCostItems:    selected,
		SelectedAlternatives: alternatives,
		SelectedHotel:        s.selectedHotel,
		SelectedFlight:       s.selectedFlight,
		Cost:                 s.costBreakdownLocked(),
	}
}

// CostBreakdown recomputes the derived cost totals. Idempotent and
// side-effect-free.
func (s *Session) CostBreakdown() CostBreakdown {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.costBreakdownLocked()
}
