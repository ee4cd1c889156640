// Copyright 2025 TripAI
// SPDX-License-Identifier: Apache-2.0

package planner

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"tripai/backend/planner/geo"
	"tripai/backend/planner/places"
	"tripai/backend/planner/trip"
	"tripai/backend/shared/logger"
	"tripai/backend/shared/types"
)

// healthChecker is the provider surface the health endpoint reads.
type healthChecker interface {
	Name() string
	IsHealthy() bool
}

// Server carries the handler dependencies.
type Server struct {
	cfg        *Config
	log        *logger.Logger
	manager    *trip.Manager
	store      *places.Store
	pgStore    *places.PGStore // nil without DATABASE_URL
	geocoder   *geo.Geocoder
	directions *geo.Directions
	limiter    *RateLimiter
	provider   healthChecker
	startTime  time.Time
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = message
	writeJSON(w, status, body)
}

// requestIDMiddleware tags every request with an ID for log correlation.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)
		ctx := logger.ContextWithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// session resolves the {id} path variable, writing a 404 on miss.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*trip.Session, bool) {
	id := mux.Vars(r)["id"]
	sess, ok := s.manager.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "SESSION_NOT_FOUND", "session not found or expired")
		return nil, false
	}
	return sess, true
}

// sessionCtx attaches the session ID for downstream log correlation.
func sessionCtx(r *http.Request, sess *trip.Session) context.Context {
	return logger.ContextWithSessionID(r.Context(), sess.ID())
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return false
	}
	return true
}

// rateLimited wraps AI-backed handlers with the per-session limiter.
func (s *Server) rateLimited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := mux.Vars(r)["id"]
		if key == "" {
			key = r.RemoteAddr
		}
		if !s.limiter.Allow(r.Context(), key) {
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests, slow down")
			return
		}
		next(w, r)
	}
}

// --- Session lifecycle ---

func (s *Server) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Language types.Language `json:"language"`
	}
	// Body is optional; default language applies.
	_ = json.NewDecoder(r.Body).Decode(&req)

	sess := s.manager.Create(req.Language)
	promLiveSessions.Set(float64(s.manager.Len()))
	writeJSON(w, http.StatusCreated, sess.Snapshot())
}

func (s *Server) getSessionHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) deleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	s.manager.Delete(mux.Vars(r)["id"])
	promLiveSessions.Set(float64(s.manager.Len()))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) setLanguageHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Language types.Language `json:"language"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := sess.SetLanguage(req.Language); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_LANGUAGE", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// --- Planning flow ---

func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var params types.SearchParams
	if !decodeBody(w, r, &params) {
		return
	}

	if err := sess.Search(sessionCtx(r, sess), params); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_SEARCH", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) selectRouteHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req struct {
		RouteID string            `json:"routeId"`
		Details *trip.TripDetails `json:"details,omitempty"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	ctx := sessionCtx(r, sess)
	var err error
	if req.Details != nil {
		err = sess.SelectRouteWithDetails(ctx, req.RouteID, *req.Details)
	} else {
		err = sess.SelectRoute(ctx, req.RouteID)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_ROUTE", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) navigateHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Index           int  `json:"index"`
		IncludeGeometry bool `json:"includeGeometry"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := sess.NavigateTo(req.Index); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_INDEX", err.Error())
		return
	}

	snap := sess.Snapshot()
	resp := struct {
		trip.Snapshot
		Geometry *geo.RouteGeometry `json:"geometry,omitempty"`
	}{Snapshot: snap}

	// Road geometry is decoration; its failure never fails navigation.
	if req.IncludeGeometry && snap.NavigationPath != nil &&
		snap.NavigationPath.From.Coordinates != nil && snap.NavigationPath.To.Coordinates != nil {
		route, err := s.directions.Route(sessionCtx(r, sess), []types.Coordinates{
			*snap.NavigationPath.From.Coordinates,
			*snap.NavigationPath.To.Coordinates,
		})
		if err != nil {
			s.log.Warn(sess.ID(), logger.RequestIDFromContext(r.Context()), "route geometry unavailable", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			resp.Geometry = route
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) backHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req struct {
		To string `json:"to"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	switch req.To {
	case "routes":
		sess.BackToRoutes()
	case "search":
		sess.BackToSearch()
	default:
		writeError(w, http.StatusBadRequest, "BAD_TARGET", `"to" must be "routes" or "search"`)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) resetHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.Reset()
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// --- Cost selection ---

func (s *Server) costItemHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Index int `json:"index"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := sess.ToggleCostItem(req.Index); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_INDEX", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) costHotelHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req struct {
		HotelID string `json:"hotelId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := sess.SelectHotel(req.HotelID); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_HOTEL", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) costFlightHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req struct {
		FlightID string `json:"flightId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := sess.SelectFlight(req.FlightID); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_FLIGHT", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) costAlternativeHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req struct {
		ItemIndex int `json:"itemIndex"`
		AltIndex  int `json:"altIndex"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := sess.SelectAlternative(req.ItemIndex, req.AltIndex); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_ALTERNATIVE", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) costDayHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Day int `json:"day"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := sess.SetSelectedDay(req.Day); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_DAY", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// --- Places autocomplete ---

type suggestion struct {
	types.Place
	Display string `json:"display"`
}

func (s *Server) suggestHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	country := r.URL.Query().Get("country")
	lang := types.Language(r.URL.Query().Get("lang"))
	if !lang.Valid() {
		lang = types.LangVietnamese
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	opts := places.SearchOptions{Limit: limit, CountryCode: country, Language: lang}

	var results []types.Place
	if s.pgStore != nil {
		pgResults, err := s.pgStore.Search(r.Context(), q, opts)
		if err == nil {
			results = pgResults
		} else {
			s.log.Warn("", logger.RequestIDFromContext(r.Context()), "places db search failed, using datasets", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	if results == nil {
		results = places.Search(q, s.store.LoadAll(r.Context()), opts)
	}

	suggestions := make([]suggestion, len(results))
	for i, p := range results {
		suggestions[i] = suggestion{Place: p, Display: places.FormatDisplay(p, lang)}
	}
	writeJSON(w, http.StatusOK, suggestions)
}

// --- Reverse geocoding ---

func (s *Server) reverseGeocodeHandler(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if errLat != nil || errLng != nil {
		writeError(w, http.StatusBadRequest, "BAD_COORDINATES", "lat and lng must be numbers")
		return
	}
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = "vi"
	}

	loc, err := s.geocoder.Reverse(r.Context(), lat, lng)
	if err != nil {
		if geoErr, ok := err.(*geo.Error); ok {
			writeError(w, http.StatusBadGateway, geoErr.Code, geoErr.LocalizedMessage(lang))
			return
		}
		writeError(w, http.StatusBadGateway, geo.CodeGeocodeFailed, "failed to get location name")
		return
	}
	writeJSON(w, http.StatusOK, loc)
}

// --- Health ---

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	components := map[string]interface{}{
		s.provider.Name(): s.provider.IsHealthy(),
	}
	if s.pgStore != nil {
		components["places_db"] = s.pgStore.Healthy(r.Context())
	}

	status := "healthy"
	for _, healthy := range components {
		if h, ok := healthy.(bool); ok && !h {
			status = "degraded"
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     status,
		"service":    "tripai-planner",
		"uptime_s":   int(time.Since(s.startTime).Seconds()),
		"sessions":   s.manager.Len(),
		"components": components,
	})
}
