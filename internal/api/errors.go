// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/kizuna/internal/catalog"
	"github.com/tomtom215/kizuna/internal/generative"
	"github.com/tomtom215/kizuna/internal/logging"
	"github.com/tomtom215/kizuna/internal/queue"
	"github.com/tomtom215/kizuna/internal/recommend"
)

// respondRecommendError maps recommendation errors to HTTP responses.
func respondRecommendError(rw *ResponseWriter, r *http.Request, err error, source string) {
	logger := logging.Ctx(r.Context())

	switch {
	case recommend.IsClientError(err):
		rw.BadRequest(err.Error())

	case errors.Is(err, recommend.ErrNoMatch):
		logger.Info().Err(err).Str("source", source).Msg("No matching title")
		rw.Error(http.StatusNotFound, ErrCodeNoMatch, "Could not find any of the provided titles")

	case errors.Is(err, generative.ErrDisabled):
		rw.ServiceUnavailable("AI recommendations are not configured")

	case errors.Is(err, generative.ErrInvalidOutput), errors.Is(err, generative.ErrUpstream):
		rw.ExternalServiceError("generative model", err)

	case catalog.IsUnavailable(err), errors.Is(err, queue.ErrStopped):
		logger.Warn().Err(err).Str("source", source).Msg("Catalog unavailable")
		rw.ServiceUnavailable("Catalog is temporarily unavailable, try again shortly")

	case r.Context().Err() != nil:
		// Client went away; nobody reads the response.
		logger.Debug().Err(err).Str("source", source).Msg("Request abandoned by client")

	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn().Err(err).Str("source", source).Msg("Recommendation timed out")
		rw.Error(http.StatusGatewayTimeout, ErrCodeTimeout, "Timed out while building recommendations")

	default:
		logger.Error().Err(err).Str("source", source).Msg("Recommendation failed")
		rw.InternalError("Failed to build recommendations")
	}
}
