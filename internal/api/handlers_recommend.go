// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

package api

import (
	"net/http"
)

// Recommendations handles POST /api/v1/recommendations.
//
// The body is a RecommendationRequest; the response is a bare
// recommend.Response ({"recommendations": [...], "baseTitle": "..."}).
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	h.serveRecommendations(w, r, h.catalog, "catalog")
}

// AIRecommendations handles POST /api/v1/recommendations/ai.
func (h *Handler) AIRecommendations(w http.ResponseWriter, r *http.Request) {
	h.serveRecommendations(w, r, h.generative, "ai")
}

func (h *Handler) serveRecommendations(w http.ResponseWriter, r *http.Request, svc Recommender, source string) {
	rw := NewResponseWriter(w, r)
	if svc == nil {
		rw.ServiceUnavailable("Recommendation source is not configured")
		return
	}

	req, ok := decodeRecommendationRequest(rw, r)
	if !ok {
		return
	}

	resp, err := svc.Recommend(r.Context(), req.toDomain())
	if err != nil {
		respondRecommendError(rw, r, err, source)
		return
	}
	rw.JSON(http.StatusOK, resp)
}
