// Copyright 2025 TripAI
// SPDX-License-Identifier: Apache-2.0

package places

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver

	"tripai/backend/shared/logger"
	"tripai/backend/shared/types"
)

// PGStore is the optional Postgres-backed autocomplete store. It is used
// when DATABASE_URL is configured; the JSON datasets remain the fallback
// path when it is not, or when a query fails.
type PGStore struct {
	db  *sql.DB
	log *logger.Logger
}

// PlacesTableSchema is the full-text places table this store queries.
// The dataset importer creates and fills it offline.
const PlacesTableSchema = `
CREATE TABLE IF NOT EXISTS places (
  id SERIAL PRIMARY KEY,
  geoname_id INTEGER UNIQUE NOT NULL,
  name VARCHAR(200) NOT NULL,
  ascii_name VARCHAR(200) NOT NULL,
  country_code CHAR(2) NOT NULL,
  country_name_en VARCHAR(100) NOT NULL,
  country_name_vi VARCHAR(100) NOT NULL,
  latitude DECIMAL(10, 7) NOT NULL,
  longitude DECIMAL(10, 7) NOT NULL,
  population INTEGER DEFAULT 0,
  timezone VARCHAR(50),

  search_vector TSVECTOR GENERATED ALWAYS AS (
    setweight(to_tsvector('simple', coalesce(name, '')), 'A') ||
    setweight(to_tsvector('simple', coalesce(ascii_name, '')), 'B')
  ) STORED,

  created_at TIMESTAMP DEFAULT NOW(),
  updated_at TIMESTAMP DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_places_search ON places USING GIN(search_vector);
CREATE INDEX IF NOT EXISTS idx_places_name ON places(ascii_name);
CREATE INDEX IF NOT EXISTS idx_places_country ON places(country_code);
CREATE INDEX IF NOT EXISTS idx_places_population ON places(population DESC);
`

const autocompleteQuery = `
SELECT
  geoname_id,
  name,
  ascii_name,
  country_code,
  country_name_en,
  country_name_vi,
  latitude,
  longitude,
  population
FROM places
WHERE
  (search_vector @@ plainto_tsquery('simple', $1) OR ascii_name ILIKE $2)
ORDER BY
  CASE WHEN ascii_name ILIKE $3 THEN 0 ELSE 1 END,
  population DESC
LIMIT $4`

const autocompleteQueryByCountry = `
SELECT
  geoname_id,
  name,
  ascii_name,
  country_code,
  country_name_en,
  country_name_vi,
  latitude,
  longitude,
  population
FROM places
WHERE
  (search_vector @@ plainto_tsquery('simple', $1) OR ascii_name ILIKE $2)
  AND country_code = $5
ORDER BY
  CASE WHEN ascii_name ILIKE $3 THEN 0 ELSE 1 END,
  population DESC
LIMIT $4`

// NewPGStore opens a connection pool against databaseURL.
func NewPGStore(databaseURL string, log *logger.Logger) (*PGStore, error) {
	if log == nil {
		log = logger.New("places-pg")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open places database: %w", err)
	}

	return &PGStore{db: db, log: log}, nil
}

// NewPGStoreWithDB wraps an existing handle (used by tests).
func NewPGStoreWithDB(db *sql.DB, log *logger.Logger) *PGStore {
	if log == nil {
		log = logger.New("places-pg")
	}
	return &PGStore{db: db, log: log}
}

// EnsureSchema creates the places table and indexes if missing.
func (s *PGStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, PlacesTableSchema); err != nil {
		return fmt.Errorf("failed to ensure places schema: %w", err)
	}
	return nil
}

// Search runs the full-text autocomplete query.
func (s *PGStore) Search(ctx context.Context, query string, opts SearchOptions) ([]types.Place, error) {
	if len([]rune(query)) < MinQueryLength {
		return nil, nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	stmt := autocompleteQuery
	args := []interface{}{query, "%" + query + "%", query + "%", limit}
	if opts.CountryCode != "" {
		stmt = autocompleteQueryByCountry
		args = append(args, opts.CountryCode)
	}

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("places autocomplete query failed: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var results []types.Place
	for rows.Next() {
		var p types.Place
		if err := rows.Scan(
			&p.ID, &p.Name, &p.AsciiName, &p.CountryCode,
			&p.Country.En, &p.Country.Vi,
			&p.Lat, &p.Lng, &p.Population,
		); err != nil {
			return nil, fmt.Errorf("failed to scan place row: %w", err)
		}
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("places row iteration failed: %w", err)
	}
	return results, nil
}

// Healthy reports whether the database answers a ping.
func (s *PGStore) Healthy(ctx context.Context) bool {
	return s.db.PingContext(ctx) == nil
}

// Close releases the connection pool.
func (s *PGStore) Close() error {
	return s.db.Close()
}
