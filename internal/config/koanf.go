// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config files searched, first match wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/kizuna/config.yaml",
	"/etc/kizuna/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    2 * time.Minute,
			ShutdownTimeout: 30 * time.Second,
			StaticDir:       "",
			Environment:     "development",
		},
		Catalog: CatalogConfig{
			BaseURL:        "https://api.jikan.moe/v4",
			RequestTimeout: 30 * time.Second,
			MaxRetries:     2,
			RetryBaseDelay: time.Second,
			SFW:            true,
			UserAgent:      "kizuna/1.0",
		},
		Queue: QueueConfig{
			Delay:         1000 * time.Millisecond,
			JobTimeout:    30 * time.Second,
			StatsInterval: time.Second,
		},
		Recommend: RecommendConfig{
			MaxResults:     10,
			DetailFetches:  8,
			FallbackPool:   25,
			CacheEnabled:   true,
			CacheTTL:       30 * time.Minute,
			RequestTimeout: 90 * time.Second,
		},
		Generative: GenerativeConfig{
			BaseURL:           "https://api.openai.com/v1",
			APIKey:            "",
			Model:             "gpt-4o-mini",
			Temperature:       0.7,
			MaxTokens:         1500,
			Timeout:           60 * time.Second,
			RequestsPerMinute: 20,
		},
		Security: SecurityConfig{
			RateLimitReqs:     30,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration with layered sources:
//  1. Defaults
//  2. Config File (optional)
//  3. Environment Variables
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// CATALOG_BASE_URL -> catalog.base_url, see envTransformFunc.
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed as comma-separated lists when set from env.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to config paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	// Server
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"static_dir":            "server.static_dir",
	"environment":           "server.environment",

	// Catalog
	"catalog_base_url":         "catalog.base_url",
	"catalog_request_timeout":  "catalog.request_timeout",
	"catalog_max_retries":      "catalog.max_retries",
	"catalog_retry_base_delay": "catalog.retry_base_delay",
	"catalog_sfw":              "catalog.sfw",
	"catalog_user_agent":       "catalog.user_agent",

	// Queue
	"catalog_rate_limit_delay": "queue.delay",
	"queue_delay":              "queue.delay",
	"queue_job_timeout":        "queue.job_timeout",
	"queue_stats_interval":     "queue.stats_interval",

	// Recommend
	"recommend_max_results":     "recommend.max_results",
	"recommend_detail_fetches":  "recommend.detail_fetches",
	"recommend_fallback_pool":   "recommend.fallback_pool",
	"recommend_cache_enabled":   "recommend.cache_enabled",
	"recommend_cache_ttl":       "recommend.cache_ttl",
	"recommend_request_timeout": "recommend.request_timeout",

	// Generative
	"generative_base_url":            "generative.base_url",
	"generative_api_key":             "generative.api_key",
	"openai_api_key":                 "generative.api_key",
	"generative_model":               "generative.model",
	"generative_temperature":         "generative.temperature",
	"generative_max_tokens":          "generative.max_tokens",
	"generative_timeout":             "generative.timeout",
	"generative_requests_per_minute": "generative.requests_per_minute",

	// Security
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
