// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

/*
Package config loads and validates service configuration with Koanf v2.

Sources are layered, later ones winning:

 1. Built-in defaults (defaultConfig)
 2. Optional YAML file: CONFIG_PATH, config.yaml, /etc/kizuna/config.yaml
 3. Environment variables, through an explicit mapping table

# Environment Variables

Server:
  - HTTP_PORT (8080), HTTP_HOST (0.0.0.0)
  - HTTP_READ_TIMEOUT (15s), HTTP_WRITE_TIMEOUT (2m), HTTP_SHUTDOWN_TIMEOUT (30s)
  - STATIC_DIR: optional front-end directory served at /
  - ENVIRONMENT: development or production

Catalog (Jikan v4):
  - CATALOG_BASE_URL (https://api.jikan.moe/v4)
  - CATALOG_REQUEST_TIMEOUT (30s), CATALOG_MAX_RETRIES (2), CATALOG_RETRY_BASE_DELAY (1s)
  - CATALOG_SFW (true), CATALOG_USER_AGENT

Request queue:
  - CATALOG_RATE_LIMIT_DELAY or QUEUE_DELAY (1s): spacing between catalog calls
  - QUEUE_JOB_TIMEOUT (30s, 0 disables)
  - QUEUE_STATS_INTERVAL (1s, 0 disables the WebSocket stats feed)

Recommendations:
  - RECOMMEND_MAX_RESULTS (10), RECOMMEND_DETAIL_FETCHES (8), RECOMMEND_FALLBACK_POOL (25)
  - RECOMMEND_CACHE_ENABLED (true), RECOMMEND_CACHE_TTL (30m)
  - RECOMMEND_REQUEST_TIMEOUT (90s)

Generative model (disabled without a key):
  - GENERATIVE_API_KEY or OPENAI_API_KEY
  - GENERATIVE_BASE_URL (https://api.openai.com/v1), GENERATIVE_MODEL (gpt-4o-mini)
  - GENERATIVE_TEMPERATURE (0.7), GENERATIVE_MAX_TOKENS (1500)
  - GENERATIVE_TIMEOUT (60s), GENERATIVE_REQUESTS_PER_MINUTE (20)

Security:
  - RATE_LIMIT_REQUESTS (30), RATE_LIMIT_WINDOW (1m), DISABLE_RATE_LIMIT
  - CORS_ORIGINS: comma-separated (default *)

Logging:
  - LOG_LEVEL (info), LOG_FORMAT (json), LOG_CALLER (false)

# Example config.yaml

	server:
	  port: 8080
	queue:
	  delay: 1s
	recommend:
	  max_results: 12
	generative:
	  model: gpt-4o-mini
*/
package config
