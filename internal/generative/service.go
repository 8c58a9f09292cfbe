// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

package generative

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/kizuna/internal/config"
	"github.com/tomtom215/kizuna/internal/logging"
	"github.com/tomtom215/kizuna/internal/metrics"
	"github.com/tomtom215/kizuna/internal/recommend"
)

var (
	// ErrDisabled is returned when no API key is configured.
	ErrDisabled = errors.New("generative recommendations are disabled")

	// ErrInvalidOutput is returned when the model output holds no usable records.
	ErrInvalidOutput = errors.New("invalid model output")

	// ErrUpstream wraps transport failures and error responses from the
	// chat-completion endpoint.
	ErrUpstream = errors.New("chat completion upstream failure")
)

// maxErrorBodySize caps how much of an error response is kept.
const maxErrorBodySize = 4 * 1024

// Service produces recommendations from a chat-completion model.
type Service struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	maxResults  int
	client      *http.Client
	limiter     *rate.Limiter
}

// chat-completion wire format

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewService creates the generative service. maxResults caps every response.
func NewService(cfg *config.GenerativeConfig, maxResults int) *Service {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 20
	}
	if maxResults <= 0 {
		maxResults = 10
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Service{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		maxResults:  maxResults,
		client:      &http.Client{Timeout: timeout},
		limiter:     rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
	}
}

// Enabled reports whether an API key is configured.
func (s *Service) Enabled() bool {
	return s.apiKey != ""
}

// Recommend asks the model for recommendations matching req.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (s *Service) Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error) {
	if !s.Enabled() {
		return nil, ErrDisabled
	}

	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 || limit > s.maxResults {
		limit = s.maxResults
	}

	if err := s.limiter.Wait(ctx); err != nil {
		metrics.GenerativeErrors.WithLabelValues("rate_limited").Inc()
		return nil, fmt.Errorf("generative rate limit wait: %w", err)
	}

	start := time.Now()
	output, err := s.complete(ctx, buildPrompt(req, limit))
	if err != nil {
		metrics.RecordGenerativeRequest(time.Since(start), "request")
		return nil, err
	}

	recs, err := parseRecommendations(output, req.MediaType, limit)
	if err != nil {
		metrics.RecordGenerativeRequest(time.Since(start), "parse")
		logging.Ctx(ctx).Warn().Err(err).Int("output_bytes", len(output)).Msg("Model output could not be parsed")
		return nil, err
	}
	metrics.RecordGenerativeRequest(time.Since(start), "")
	metrics.RecordRecommendations("ai", string(req.MediaType))

	for i := range recs {
		if recs[i].SimilarTo == "" {
			recs[i].SimilarTo = req.Titles[0]
		}
	}

	logging.Ctx(ctx).Info().
		Str("media_type", string(req.MediaType)).
		Str("model", s.model).
		Int("count", len(recs)).
		Dur("duration", time.Since(start)).
		Msg("Generative recommendations served")

	return &recommend.Response{
		Recommendations: recs,
		BaseTitle:       req.Titles[0],
	}, nil
}

// complete sends one chat-completion request and returns the first choice.
func (s *Service) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("chat completion request failed: %w", err)
		}
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return "", fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrUpstream, out.Error.Message)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%w: empty completion", ErrInvalidOutput)
	}
	return out.Choices[0].Message.Content, nil
}
