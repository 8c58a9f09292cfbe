// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

package validation

import (
	"strings"
	"testing"
)

type testRequest struct {
	Titles    []string `json:"titles" validate:"required,min=1,max=3,dive,notblank,max=20"`
	MediaType string   `json:"mediaType" validate:"omitempty,oneof=manga manhwa anime"`
	Limit     int      `json:"limit" validate:"omitempty,min=1,max=25"`
	Untagged  int      `validate:"gte=0"`
}

func validRequest() testRequest {
	return testRequest{Titles: []string{"Berserk"}, MediaType: "manga", Limit: 5}
}

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() should not return nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*testRequest)
	}{
		{"minimal", func(r *testRequest) { r.MediaType = ""; r.Limit = 0 }},
		{"manhwa", func(r *testRequest) { r.MediaType = "manhwa" }},
		{"max titles", func(r *testRequest) { r.Titles = []string{"a", "b", "c"} }},
		{"max limit", func(r *testRequest) { r.Limit = 25 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			if err := ValidateStruct(&req); err != nil {
				t.Errorf("ValidateStruct() = %v, want nil", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*testRequest)
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{"missing titles", func(r *testRequest) { r.Titles = nil }, "titles", "required", "titles is required"},
		{"too many titles", func(r *testRequest) { r.Titles = []string{"a", "b", "c", "d"} }, "titles", "max", "titles must have at most 3 items"},
		{"blank title", func(r *testRequest) { r.Titles = []string{"   "} }, "titles[0]", "notblank", "titles[0] must not be blank"},
		{"long title", func(r *testRequest) { r.Titles = []string{strings.Repeat("x", 21)} }, "titles[0]", "max", "titles[0] must have at most 20 characters"},
		{"unknown media type", func(r *testRequest) { r.MediaType = "novel" }, "mediaType", "oneof", "mediaType must be one of: manga manhwa anime"},
		{"limit too large", func(r *testRequest) { r.Limit = 26 }, "limit", "max", "limit must be at most 25"},
		{"untagged field", func(r *testRequest) { r.Untagged = -1 }, "Untagged", "gte", "Untagged must be greater than or equal to 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			verr := ValidateStruct(&req)
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), verr)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
			if errs[0].Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", errs[0].Error(), tt.wantMsg)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	t.Run("single error", func(t *testing.T) {
		req := validRequest()
		req.Limit = 100

		apiErr := ValidateStruct(&req).ToAPIError()
		if apiErr.Code != CodeValidationFailed {
			t.Errorf("Code = %q, want %q", apiErr.Code, CodeValidationFailed)
		}
		if apiErr.Message != "limit must be at most 25" {
			t.Errorf("Message = %q", apiErr.Message)
		}
		if apiErr.Details["field"] != "limit" {
			t.Errorf("Details[field] = %v, want limit", apiErr.Details["field"])
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		req := validRequest()
		req.Limit = 100
		req.MediaType = "novel"

		apiErr := ValidateStruct(&req).ToAPIError()
		fields, ok := apiErr.Details["fields"].([]map[string]interface{})
		if !ok || len(fields) != 2 {
			t.Fatalf("Details[fields] = %v, want 2 entries", apiErr.Details["fields"])
		}
		if !strings.Contains(apiErr.Message, "limit") || !strings.Contains(apiErr.Message, "mediaType") {
			t.Errorf("Message = %q, want both fields", apiErr.Message)
		}
	})

	t.Run("empty", func(t *testing.T) {
		apiErr := (&RequestValidationError{}).ToAPIError()
		if apiErr.Message != "Validation failed" {
			t.Errorf("Message = %q", apiErr.Message)
		}
	})
}

func TestValidateStruct_NonStruct(t *testing.T) {
	verr := ValidateStruct("not a struct")
	if verr == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}
	if verr.Errors()[0].Field() != "unknown" {
		t.Errorf("Field() = %q, want unknown", verr.Errors()[0].Field())
	}
}
