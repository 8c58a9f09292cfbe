// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

// Package validation provides struct validation using go-playground/validator v10.
//
// It wraps a thread-safe singleton validator with one custom tag and
// translates failures into the API's VALIDATION_FAILED error payload.
//
// # Usage
//
//	type RecommendationRequest struct {
//	    Titles    []string `json:"titles" validate:"required,min=1,max=10,dive,notblank,max=200"`
//	    MediaType string   `json:"mediaType" validate:"omitempty,oneof=manga manhwa anime"`
//	    Limit     int      `json:"limit" validate:"omitempty,min=1,max=25"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    // apiErr.Code == "VALIDATION_FAILED"
//	}
//
// # Custom Validators
//
//   - notblank: string must contain a non-whitespace character
//
// # Field Names
//
// Errors report the json tag name of the field, so "titles[0] must not be
// blank" points at the request body rather than the Go struct.
//
// # Thread Safety
//
// GetValidator initializes once with sync.Once; the validator caches struct
// metadata and is safe for concurrent use.
package validation
