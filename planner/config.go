// Copyright 2025 TripAI
// SPDX-License-Identifier: Apache-2.0

package planner

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the planner service configuration. It is loaded from an
// optional YAML file with ${VAR} references expanded from the
// environment, then overridden by well-known environment variables so
// container deployments need no file at all.
type Config struct {
	Server struct {
		Port        string   `yaml:"port"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`

	Gemini struct {
		APIKey string `yaml:"api_key"`
		Model  string `yaml:"model"`
	} `yaml:"gemini"`

	Places struct {
		DataDir     string `yaml:"data_dir"`
		DatabaseURL string `yaml:"database_url"`
	} `yaml:"places"`

	Redis struct {
		URL            string `yaml:"url"`
		LimitPerMinute int    `yaml:"limit_per_minute"`
	} `yaml:"redis"`

	Session struct {
		TTL duration `yaml:"ttl"`
	} `yaml:"session"`

	Geo struct {
		NominatimURL string `yaml:"nominatim_url"`
		OSRMURL      string `yaml:"osrm_url"`
	} `yaml:"geo"`
}

// duration accepts "90s"/"2h"-style YAML values.
type duration time.Duration

func (d *duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = duration(parsed)
	return nil
}

// LoadConfig reads the configuration. A missing file is not an error;
// the service then runs on defaults plus environment variables.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err == nil {
			expanded := os.ExpandEnv(string(raw))
			if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		c.Gemini.Model = v
	}
	if v := os.Getenv("PLACES_DATA_DIR"); v != "" {
		c.Places.DataDir = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Places.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.Redis.URL = v
	}
	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Redis.LimitPerMinute = n
		}
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Session.TTL = duration(d)
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"*"}
	}
	if c.Places.DataDir == "" {
		c.Places.DataDir = "./data"
	}
	if c.Redis.LimitPerMinute <= 0 {
		c.Redis.LimitPerMinute = 60
	}
	if c.Session.TTL <= 0 {
		c.Session.TTL = duration(2 * time.Hour)
	}
}
