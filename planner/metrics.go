// Copyright 2025 TripAI
// SPDX-License-Identifier: Apache-2.0

package planner

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus metrics
var (
	promRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripai_planner_requests_total",
			Help: "Total number of HTTP requests handled by the planner",
		},
		[]string{"route", "method", "status"},
	)
	promRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tripai_planner_request_duration_milliseconds",
			Help:    "Request duration in milliseconds",
			Buckets: []float64{10, 50, 100, 200, 500, 1000, 2000, 5000, 10000, 30000},
		},
		[]string{"route"},
	)
	promLiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tripai_planner_live_sessions",
			Help: "Number of live planning sessions",
		},
	)
	promRateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tripai_planner_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
	)
)

func init() {
	prometheus.MustRegister(promRequestsTotal)
	prometheus.MustRegister(promRequestDuration)
	prometheus.MustRegister(promLiveSessions)
	prometheus.MustRegister(promRateLimited)
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// metricsMiddleware records per-route counters and latency. The mux
// route template keeps the label cardinality bounded.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		promRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		promRequestDuration.WithLabelValues(route).Observe(float64(time.Since(start).Milliseconds()))
	})
}
