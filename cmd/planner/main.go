// Copyright 2025 TripAI
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package main is the entry point for the TripAI planner service.
//
// The planner is the backend of the trip-planning assistant:
// - Generates route options, itineraries, hotels and flights via Gemini
// - Tracks per-user planning sessions with derived cost accounting
// - Serves place autocomplete from static datasets or Postgres
// - Reverse-geocodes coordinates through OpenStreetMap Nominatim
//
// Usage:
//
//	./planner
//
// Environment Variables:
//
//	PORT - HTTP server port (default: 8080)
//	GEMINI_API_KEY - Google Gemini API key (required)
//	PLACES_DATA_DIR - place dataset directory (default: ./data)
//	DATABASE_URL - PostgreSQL connection string (optional)
//	REDIS_URL - Redis connection string for rate limiting (optional)
//	CONFIG_PATH - YAML configuration file (optional)
package main

import (
	"tripai/backend/planner"
)

func main() {
	planner.Run()
}
