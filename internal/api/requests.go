// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/kizuna/internal/recommend"
	"github.com/tomtom215/kizuna/internal/validation"
)

// maxRequestBodySize bounds recommendation request bodies.
const maxRequestBodySize = 64 << 10

// RecommendationRequest is the body of both recommendation endpoints.
type RecommendationRequest struct {
	Titles      []string `json:"titles" validate:"required,min=1,max=10,dive,notblank,max=200"`
	Preferences string   `json:"preferences" validate:"max=500"`
	Genres      []string `json:"genres" validate:"max=10,dive,notblank,max=50"`
	Exclude     []string `json:"exclude" validate:"max=50,dive,max=200"`
	MediaType   string   `json:"mediaType" validate:"omitempty,oneof=manga manhwa anime"`
	Limit       int      `json:"limit" validate:"min=0,max=50"`
}

// toDomain converts the validated DTO into a recommend.Request.
func (req *RecommendationRequest) toDomain() recommend.Request {
	return recommend.Request{
		Titles:      req.Titles,
		Preferences: req.Preferences,
		Genres:      req.Genres,
		Exclude:     req.Exclude,
		MediaType:   recommend.MediaType(req.MediaType),
		Limit:       req.Limit,
	}
}

// decodeRecommendationRequest reads and validates the request body. On
// failure the error response has been written and ok is false.
func decodeRecommendationRequest(rw *ResponseWriter, r *http.Request) (req RecommendationRequest, ok bool) {
	body, err := io.ReadAll(http.MaxBytesReader(rw.w, r.Body, maxRequestBodySize))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			rw.Error(http.StatusRequestEntityTooLarge, ErrCodeBadRequest, "Request body too large")
			return req, false
		}
		rw.BadRequest("Failed to read request body")
		return req, false
	}

	if err := json.Unmarshal(body, &req); err != nil {
		rw.BadRequest("Request body must be a JSON object")
		return req, false
	}

	req.MediaType = strings.ToLower(strings.TrimSpace(req.MediaType))

	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return req, false
	}
	return req, true
}
