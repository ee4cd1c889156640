// Copyright 2025 TripAI
// SPDX-License-Identifier: Apache-2.0

// Package planner wires the TripAI planning service: HTTP API, session
// manager, AI gateway, places autocomplete and geo collaborators.
package planner

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"tripai/backend/planner/geo"
	"tripai/backend/planner/llm"
	"tripai/backend/planner/llm/gemini"
	"tripai/backend/planner/places"
	"tripai/backend/planner/trip"
	"tripai/backend/shared/logger"
)

// Run starts the planner service and blocks until shutdown.
//
// Environment variables:
//   - PORT: HTTP listen port (default: 8080)
//   - GEMINI_API_KEY: Google Gemini API key (required)
//   - GEMINI_MODEL: model override (optional)
//   - PLACES_DATA_DIR: directory with the place datasets (default: ./data)
//   - DATABASE_URL: Postgres URL for places autocomplete (optional)
//   - REDIS_URL: Redis URL for rate limiting (optional)
//   - RATE_LIMIT_PER_MINUTE: per-session request budget (default: 60)
//   - SESSION_TTL: idle session lifetime (default: 2h)
//   - CONFIG_PATH: YAML config file (optional)
func Run() {
	log := logger.New("planner")

	cfg, err := LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Error("", "", "failed to load configuration", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	provider, err := gemini.NewProvider(gemini.Config{
		APIKey: cfg.Gemini.APIKey,
		Model:  cfg.Gemini.Model,
	})
	if err != nil {
		log.Error("", "", "failed to initialize Gemini provider", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	gateway := llm.NewGateway(provider, logger.New("ai-gateway"))
	manager := trip.NewManager(gateway, time.Duration(cfg.Session.TTL), logger.New("session-manager"))

	store := places.NewStore(cfg.Places.DataDir, logger.New("places"))
	var pgStore *places.PGStore
	if cfg.Places.DatabaseURL != "" {
		pgStore, err = places.NewPGStore(cfg.Places.DatabaseURL, logger.New("places-pg"))
		if err != nil {
			log.Warn("", "", "places database unavailable, using datasets only", map[string]interface{}{
				"error": err.Error(),
			})
			pgStore = nil
		} else if err := pgStore.EnsureSchema(context.Background()); err != nil {
			log.Warn("", "", "failed to ensure places schema", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	limiter, err := NewRateLimiter(cfg.Redis.URL, cfg.Redis.LimitPerMinute, logger.New("rate-limiter"))
	if err != nil {
		log.Warn("", "", "rate limiter disabled", map[string]interface{}{"error": err.Error()})
		limiter, _ = NewRateLimiter("", cfg.Redis.LimitPerMinute, nil)
	}

	srv := &Server{
		cfg:        cfg,
		log:        log,
		manager:    manager,
		store:      store,
		pgStore:    pgStore,
		geocoder:   geo.NewGeocoder(geo.GeocoderConfig{BaseURL: cfg.Geo.NominatimURL}, logger.New("geocoder")),
		directions: geo.NewDirections(geo.DirectionsConfig{BaseURL: cfg.Geo.OSRMURL}, logger.New("directions")),
		limiter:    limiter,
		provider:   provider,
		startTime:  time.Now(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	manager.StartSweeper(ctx)

	handler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(srv.router())

	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: handler,
	}

	go func() {
		log.Info("", "", "planner listening", map[string]interface{}{"port": cfg.Server.Port})
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("", "", "server failed", map[string]interface{}{"error": err.Error()})
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("", "", "shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("", "", "shutdown error", map[string]interface{}{"error": err.Error()})
	}
	if pgStore != nil {
		_ = pgStore.Close()
	}
	_ = limiter.Close()
}

// router builds the gorilla mux route table.
func (s *Server) router() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(metricsMiddleware)

	// Health and metrics
	r.HandleFunc("/health", s.healthHandler).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Session lifecycle
	r.HandleFunc("/api/v1/sessions", s.createSessionHandler).Methods("POST")
	r.HandleFunc("/api/v1/sessions/{id}", s.getSessionHandler).Methods("GET")
	r.HandleFunc("/api/v1/sessions/{id}", s.deleteSessionHandler).Methods("DELETE")
	r.HandleFunc("/api/v1/sessions/{id}/language", s.setLanguageHandler).Methods("POST")

	// Planning flow (AI-backed endpoints are rate limited)
	r.HandleFunc("/api/v1/sessions/{id}/search", s.rateLimited(s.searchHandler)).Methods("POST")
	r.HandleFunc("/api/v1/sessions/{id}/route", s.rateLimited(s.selectRouteHandler)).Methods("POST")
	r.HandleFunc("/api/v1/sessions/{id}/navigate", s.navigateHandler).Methods("POST")
	r.HandleFunc("/api/v1/sessions/{id}/back", s.backHandler).Methods("POST")
	r.HandleFunc("/api/v1/sessions/{id}/reset", s.resetHandler).Methods("POST")

	// Cost selection
	r.HandleFunc("/api/v1/sessions/{id}/cost/item", s.costItemHandler).Methods("POST")
	r.HandleFunc("/api/v1/sessions/{id}/cost/hotel", s.costHotelHandler).Methods("POST")
	r.HandleFunc("/api/v1/sessions/{id}/cost/flight", s.costFlightHandler).Methods("POST")
	r.HandleFunc("/api/v1/sessions/{id}/cost/alternative", s.costAlternativeHandler).Methods("POST")
	r.HandleFunc("/api/v1/sessions/{id}/cost/day", s.costDayHandler).Methods("POST")

	// Places and geo
	r.HandleFunc("/api/v1/places/suggest", s.suggestHandler).Methods("GET")
	r.HandleFunc("/api/v1/geocode/reverse", s.reverseGeocodeHandler).Methods("GET")

	return r
}
