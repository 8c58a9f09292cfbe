// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/kizuna/internal/config"
	"github.com/tomtom215/kizuna/internal/logging"
	"github.com/tomtom215/kizuna/internal/metrics"
)

// ErrNotFound is returned when Jikan answers 404 for an id.
var ErrNotFound = errors.New("catalog entry not found")

// maxErrorBodySize caps how much of an error response is read into memory.
const maxErrorBodySize = 64 * 1024

// Client handles communication with the Jikan v4 HTTP API.
//
// Features:
//   - Configurable request timeout (default 30s)
//   - Automatic retry on HTTP 429 with exponential backoff, honoring Retry-After
//   - JSON decoding into typed wire structs, normalized to Entry/Reference/Genre
//
// Client does not pace requests. Callers that share Jikan's rate limit must
// go through QueuedClient.
type Client struct {
	baseURL        string
	client         *http.Client
	userAgent      string
	sfw            bool
	maxRetries     int           // Maximum retries for rate limiting
	retryBaseDelay time.Duration // Base delay for exponential backoff
}

// NewClient creates a Jikan client from configuration.
func NewClient(cfg *config.CatalogConfig) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	baseDelay := cfg.RetryBaseDelay
	if baseDelay <= 0 {
		baseDelay = time.Second
	}
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		client:         &http.Client{Timeout: timeout},
		userAgent:      cfg.UserAgent,
		sfw:            cfg.SFW,
		maxRetries:     max(cfg.MaxRetries, 0),
		retryBaseDelay: baseDelay,
	}
}

// Search runs a filtered title search.
func (c *Client) Search(ctx context.Context, kind Kind, query SearchQuery) ([]Entry, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}

	params := url.Values{}
	if query.Query != "" {
		params.Set("q", query.Query)
	}
	if query.Type != "" {
		params.Set("type", query.Type)
	}
	if len(query.GenreIDs) > 0 {
		ids := make([]string, len(query.GenreIDs))
		for i, id := range query.GenreIDs {
			ids[i] = strconv.Itoa(id)
		}
		params.Set("genres", strings.Join(ids, ","))
	}
	if query.OrderBy != "" {
		params.Set("order_by", query.OrderBy)
	}
	if query.Sort != "" {
		params.Set("sort", query.Sort)
	}
	if query.Limit > 0 {
		params.Set("limit", strconv.Itoa(query.Limit))
	}
	if c.sfw {
		params.Set("sfw", "true")
	}

	var resp jikanList[jikanEntry]
	if err := c.makeRequest(ctx, "search", "/"+string(kind), params, &resp); err != nil {
		return nil, err
	}
	return normalizeEntries(resp.Data), nil
}

// Get fetches a single title by MAL id.
func (c *Client) Get(ctx context.Context, kind Kind, id int) (*Entry, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}

	var resp jikanItem[jikanEntry]
	if err := c.makeRequest(ctx, "get", fmt.Sprintf("/%s/%d", kind, id), nil, &resp); err != nil {
		return nil, err
	}
	entry := resp.Data.normalize()
	return &entry, nil
}

// Recommendations returns the crowd-sourced recommendations for a title,
// in Jikan's order (most votes first).
func (c *Client) Recommendations(ctx context.Context, kind Kind, id int) ([]Reference, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}

	var resp jikanList[jikanRecommendation]
	if err := c.makeRequest(ctx, "recommendations", fmt.Sprintf("/%s/%d/recommendations", kind, id), nil, &resp); err != nil {
		return nil, err
	}

	refs := make([]Reference, 0, len(resp.Data))
	for _, r := range resp.Data {
		refs = append(refs, Reference{
			ID:       r.Entry.MalID,
			Title:    r.Entry.Title,
			URL:      r.Entry.URL,
			ImageURL: r.Entry.Images.best(),
			Votes:    r.Votes,
		})
	}
	return refs, nil
}

// Top returns the top-ranked titles.
func (c *Client) Top(ctx context.Context, kind Kind, query TopQuery) ([]Entry, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}

	params := url.Values{}
	if query.Type != "" {
		params.Set("type", query.Type)
	}
	if query.Limit > 0 {
		params.Set("limit", strconv.Itoa(query.Limit))
	}
	if c.sfw {
		params.Set("sfw", "true")
	}

	var resp jikanList[jikanEntry]
	if err := c.makeRequest(ctx, "top", "/top/"+string(kind), params, &resp); err != nil {
		return nil, err
	}
	return normalizeEntries(resp.Data), nil
}

// Genres lists the genres, themes and demographics of a kind.
func (c *Client) Genres(ctx context.Context, kind Kind) ([]Genre, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}

	var resp jikanList[jikanGenre]
	if err := c.makeRequest(ctx, "genres", "/genres/"+string(kind), nil, &resp); err != nil {
		return nil, err
	}

	genres := make([]Genre, 0, len(resp.Data))
	for _, g := range resp.Data {
		genres = append(genres, Genre{ID: g.MalID, Name: g.Name, Count: g.Count})
	}
	return genres, nil
}

// Ping verifies connectivity with the smallest listing Jikan offers.
func (c *Client) Ping(ctx context.Context) error {
	params := url.Values{}
	params.Set("filter", "demographics")

	var resp jikanList[jikanGenre]
	if err := c.makeRequest(ctx, "ping", "/genres/"+string(KindManga), params, &resp); err != nil {
		return fmt.Errorf("catalog ping failed: %w", err)
	}
	return nil
}

// makeRequest performs a GET against path, checks the status and decodes
// the JSON body into result. It records duration and errors per operation.
func (c *Client) makeRequest(ctx context.Context, operation, path string, params url.Values, result interface{}) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordCatalogRequest(operation, time.Since(start), err)
	}()

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	resp, err := c.doRequestWithRateLimit(ctx, reqURL)
	if err != nil {
		return fmt.Errorf("failed to make %s request: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", operation, path, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s: %w", operation, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       string(readBodyForError(resp.Body)),
		})
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", operation, err)
	}
	return nil
}

// doRequestWithRateLimit performs an HTTP request with automatic rate limit handling.
// Implements exponential backoff for HTTP 429 responses (1s, 2s, 4s, ...).
// A positive Retry-After (seconds) overrides the computed delay.
func (c *Client) doRequestWithRateLimit(ctx context.Context, reqURL string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.userAgent != "" {
			req.Header.Set("User-Agent", c.userAgent)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		// Rate limited (HTTP 429) - close body and retry with backoff
		_ = resp.Body.Close()
		metrics.CatalogRateLimited.Inc()

		if attempt == c.maxRetries {
			lastErr = fmt.Errorf("rate limit exceeded after %d retries (HTTP 429)", c.maxRetries)
			break
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := time.ParseDuration(retryAfter + "s"); err == nil && seconds > 0 {
				delay = seconds
			}
		}

		logging.Ctx(ctx).Warn().
			Int("attempt", attempt+1).
			Dur("backoff", delay).
			Msg("Catalog rate limited, backing off")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// readBodyForError reads at most maxErrorBodySize bytes of an error response.
func readBodyForError(body io.Reader) []byte {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBodySize+1))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(data) > maxErrorBodySize {
		data = append(data[:maxErrorBodySize], []byte("\n... (truncated)")...)
	}
	return data
}

func normalizeEntries(raw []jikanEntry) []Entry {
	entries := make([]Entry, 0, len(raw))
	for i := range raw {
		entries = append(entries, raw[i].normalize())
	}
	return entries
}

func checkKind(kind Kind) error {
	if !kind.Valid() {
		return fmt.Errorf("unsupported catalog kind %q", kind)
	}
	return nil
}
