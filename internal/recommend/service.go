// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/kizuna/internal/cache"
	"github.com/tomtom215/kizuna/internal/config"
	"github.com/tomtom215/kizuna/internal/logging"
	"github.com/tomtom215/kizuna/internal/metrics"
)

const cacheType = "recommendations"

// Service dispatches requests to the assembler for their media type and
// caches assembled responses.
type Service struct {
	assemblers     map[MediaType]*Assembler
	cache          *cache.Cache
	requestTimeout time.Duration
}

// NewService builds one assembler per media type. responses may be nil to
// disable caching.
func NewService(cat Catalog, cfg *config.RecommendConfig, responses *cache.Cache) (*Service, error) {
	opts := Options{
		MaxResults:    cfg.MaxResults,
		DetailFetches: cfg.DetailFetches,
		FallbackPool:  cfg.FallbackPool,
	}

	s := &Service{
		assemblers:     make(map[MediaType]*Assembler, len(profiles)),
		cache:          responses,
		requestTimeout: cfg.RequestTimeout,
	}
	for media := range profiles {
		a, err := NewAssembler(cat, media, opts)
		if err != nil {
			return nil, err
		}
		s.assemblers[media] = a
	}
	return s, nil
}

// Recommend validates req and returns its recommendations.
//
// Errors: ErrNoTitles and ErrInvalidMediaType for bad input, ErrNoMatch when
// no liked title is in the catalog, ctx errors when the request times out.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (s *Service) Recommend(ctx context.Context, req Request) (*Response, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}

	assembler := s.assemblers[req.MediaType]
	if assembler == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMediaType, req.MediaType)
	}

	key := cache.GenerateKey("recommend", req)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			if resp, ok := cached.(*Response); ok {
				metrics.RecordCacheLookup(cacheType, true)
				logging.Ctx(ctx).Debug().Str("media_type", string(req.MediaType)).Msg("Serving cached recommendations")
				return resp, nil
			}
		}
		metrics.RecordCacheLookup(cacheType, false)
	}

	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := assembler.Assemble(ctx, req)
	if err != nil {
		return nil, err
	}

	metrics.RecordRecommendations("catalog", string(req.MediaType))
	logging.Ctx(ctx).Info().
		Str("media_type", string(req.MediaType)).
		Str("base_title", resp.BaseTitle).
		Int("count", len(resp.Recommendations)).
		Dur("duration", time.Since(start)).
		Msg("Recommendations served")

	if s.cache != nil && len(resp.Recommendations) > 0 {
		s.cache.Set(key, resp)
	}
	return resp, nil
}
