// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
//
// Loading order (Koanf v2):
//  1. Defaults: built-in values for every setting
//  2. Config File: optional YAML (config.yaml, or CONFIG_PATH)
//  3. Environment Variables: override any setting
//
// Config is immutable after Load and safe for concurrent reads.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Catalog    CatalogConfig    `koanf:"catalog"`
	Queue      QueueConfig      `koanf:"queue"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	Generative GenerativeConfig `koanf:"generative"`
	Security   SecurityConfig   `koanf:"security"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"` // Must cover queue waits on busy catalogs
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	StaticDir       string        `koanf:"static_dir"` // Optional front-end assets served at /
	Environment     string        `koanf:"environment"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CatalogConfig configures the MyAnimeList-compatible catalog API (Jikan v4).
type CatalogConfig struct {
	BaseURL        string        `koanf:"base_url"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
	MaxRetries     int           `koanf:"max_retries"` // HTTP 429 retries inside a single job
	RetryBaseDelay time.Duration `koanf:"retry_base_delay"`
	SFW            bool          `koanf:"sfw"`
	UserAgent      string        `koanf:"user_agent"`
}

// QueueConfig configures the request queue in front of the catalog.
type QueueConfig struct {
	// Delay is the fixed spacing between consecutive catalog calls.
	Delay time.Duration `koanf:"delay"`
	// JobTimeout bounds a single catalog call. Zero disables the bound.
	JobTimeout time.Duration `koanf:"job_timeout"`
	// StatsInterval is how often queue stats are pushed to WebSocket
	// subscribers. Zero disables GET /api/v1/queue/ws.
	StatsInterval time.Duration `koanf:"stats_interval"`
}

// RecommendConfig configures the recommendation assemblers.
type RecommendConfig struct {
	MaxResults     int           `koanf:"max_results"`
	DetailFetches  int           `koanf:"detail_fetches"` // Detail jobs per request, before fallbacks
	FallbackPool   int           `koanf:"fallback_pool"`  // Results requested from genre/top fallbacks
	CacheEnabled   bool          `koanf:"cache_enabled"`
	CacheTTL       time.Duration `koanf:"cache_ttl"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

// GenerativeConfig configures the OpenAI-compatible chat completion backend.
// The generative path is disabled when APIKey is empty.
type GenerativeConfig struct {
	BaseURL           string        `koanf:"base_url"`
	APIKey            string        `koanf:"api_key"`
	Model             string        `koanf:"model"`
	Temperature       float64       `koanf:"temperature"`
	MaxTokens         int           `koanf:"max_tokens"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerMinute int           `koanf:"requests_per_minute"`
}

// Enabled reports whether generative recommendations can be served.
func (g GenerativeConfig) Enabled() bool {
	return g.APIKey != ""
}

// SecurityConfig holds inbound protection settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from defaults, the optional config file and the
// environment, then validates it.
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load configuration")
//	}
func Load() (*Config, error) {
	return LoadWithKoanf()
}
