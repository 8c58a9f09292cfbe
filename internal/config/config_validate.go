// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

package config

import (
	"fmt"
	"time"
)

// Validate checks that configuration values are present and within bounds.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateCatalog,
		c.validateQueue,
		c.validateRecommend,
		c.validateGenerative,
		c.validateSecurity,
		c.validateLogging,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("HTTP_READ_TIMEOUT and HTTP_WRITE_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if err := validateBaseURL(c.Catalog.BaseURL, "CATALOG_BASE_URL"); err != nil {
		return err
	}
	if c.Catalog.RequestTimeout <= 0 {
		return fmt.Errorf("CATALOG_REQUEST_TIMEOUT must be positive")
	}
	if c.Catalog.MaxRetries < 0 || c.Catalog.MaxRetries > 10 {
		return fmt.Errorf("CATALOG_MAX_RETRIES must be between 0 and 10")
	}
	if c.Catalog.MaxRetries > 0 && c.Catalog.RetryBaseDelay <= 0 {
		return fmt.Errorf("CATALOG_RETRY_BASE_DELAY must be positive when retries are enabled")
	}
	return nil
}

// Queue delay bounds
const (
	minQueueDelay = 10 * time.Millisecond
	maxQueueDelay = time.Minute
)

func (c *Config) validateQueue() error {
	if c.Queue.Delay < minQueueDelay || c.Queue.Delay > maxQueueDelay {
		return fmt.Errorf("CATALOG_RATE_LIMIT_DELAY must be between %v and %v", minQueueDelay, maxQueueDelay)
	}
	if c.Queue.JobTimeout < 0 {
		return fmt.Errorf("QUEUE_JOB_TIMEOUT must not be negative")
	}
	if c.Queue.StatsInterval < 0 {
		return fmt.Errorf("QUEUE_STATS_INTERVAL must not be negative")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if c.Recommend.MaxResults < 1 || c.Recommend.MaxResults > 50 {
		return fmt.Errorf("RECOMMEND_MAX_RESULTS must be between 1 and 50")
	}
	if c.Recommend.DetailFetches < 0 || c.Recommend.DetailFetches > 25 {
		return fmt.Errorf("RECOMMEND_DETAIL_FETCHES must be between 0 and 25")
	}
	if c.Recommend.FallbackPool < 1 || c.Recommend.FallbackPool > 25 {
		return fmt.Errorf("RECOMMEND_FALLBACK_POOL must be between 1 and 25")
	}
	if c.Recommend.CacheEnabled && c.Recommend.CacheTTL <= 0 {
		return fmt.Errorf("RECOMMEND_CACHE_TTL must be positive when the cache is enabled")
	}
	if c.Recommend.RequestTimeout <= 0 {
		return fmt.Errorf("RECOMMEND_REQUEST_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateGenerative() error {
	if !c.Generative.Enabled() {
		return nil
	}
	if err := validateBaseURL(c.Generative.BaseURL, "GENERATIVE_BASE_URL"); err != nil {
		return err
	}
	if c.Generative.Model == "" {
		return fmt.Errorf("GENERATIVE_MODEL is required when GENERATIVE_API_KEY is set")
	}
	if c.Generative.Temperature < 0 || c.Generative.Temperature > 2 {
		return fmt.Errorf("GENERATIVE_TEMPERATURE must be between 0 and 2")
	}
	if c.Generative.MaxTokens < 1 {
		return fmt.Errorf("GENERATIVE_MAX_TOKENS must be positive")
	}
	if c.Generative.Timeout <= 0 {
		return fmt.Errorf("GENERATIVE_TIMEOUT must be positive")
	}
	if c.Generative.RequestsPerMinute < 1 {
		return fmt.Errorf("GENERATIVE_REQUESTS_PER_MINUTE must be positive")
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// HasWildcardCORS reports whether any origin is allowed.
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
