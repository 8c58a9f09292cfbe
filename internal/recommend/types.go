// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/kizuna/internal/catalog"
	"github.com/tomtom215/kizuna/internal/queue"
)

var (
	// ErrNoMatch is returned when none of the liked titles matched a catalog entry.
	ErrNoMatch = errors.New("no matching title found")

	// ErrNoTitles is returned for a request without any non-blank title.
	ErrNoTitles = errors.New("at least one title is required")

	// ErrInvalidMediaType is returned for an unknown media type.
	ErrInvalidMediaType = errors.New("invalid media type")
)

// MediaType selects the assembler profile.
type MediaType string

const (
	MediaManga  MediaType = "manga"
	MediaManhwa MediaType = "manhwa"
	MediaAnime  MediaType = "anime"
)

// ParseMediaType parses s case-insensitively. Empty means manga.
func ParseMediaType(s string) (MediaType, error) {
	switch m := MediaType(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return MediaManga, nil
	case MediaManga, MediaManhwa, MediaAnime:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMediaType, s)
	}
}

// Source identifies which tier produced a recommendation.
type Source string

const (
	SourceRecommendation Source = "recommendation"
	SourceGenre          Source = "genre"
	SourceTop            Source = "top"
	SourceGenerative     Source = "ai"
)

// Request is a recommendation request.
type Request struct {
	// Titles the user liked, in priority order. Required.
	Titles []string `json:"titles"`

	// Preferences is free text ("dark fantasy, slow burn").
	Preferences string `json:"preferences,omitempty"`

	// Genres restricts results to entries carrying at least one of these.
	Genres []string `json:"genres,omitempty"`

	// Exclude lists titles or genres that must not appear.
	Exclude []string `json:"exclude,omitempty"`

	MediaType MediaType `json:"mediaType,omitempty"`

	// Limit caps the result count. Zero means the configured maximum.
	Limit int `json:"limit,omitempty"`
}

// Normalize trims and drops blank entries and resolves the media type.
func (r Request) Normalize() (Request, error) {
	out := Request{
		Titles:      compact(r.Titles),
		Preferences: strings.TrimSpace(r.Preferences),
		Genres:      compact(r.Genres),
		Exclude:     compact(r.Exclude),
		Limit:       r.Limit,
	}
	if len(out.Titles) == 0 {
		return out, ErrNoTitles
	}
	media, err := ParseMediaType(string(r.MediaType))
	if err != nil {
		return out, err
	}
	out.MediaType = media
	return out, nil
}

// Recommendation is a normalized recommendation record.
type Recommendation struct {
	Title       string   `json:"title"`
	Creator     string   `json:"creator"`
	Type        string   `json:"type"`
	Genres      []string `json:"genres"`
	Description string   `json:"description"`
	SimilarTo   string   `json:"similarTo"`
	Reason      string   `json:"reason"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	URL         string   `json:"url,omitempty"`
	Score       float64  `json:"score,omitempty"`
	Chapters    int      `json:"chapters,omitempty"`
	Episodes    int      `json:"episodes,omitempty"`
	Source      Source   `json:"source"`
}

// Response is an assembled recommendation list.
type Response struct {
	Recommendations []Recommendation `json:"recommendations"`
	BaseTitle       string           `json:"baseTitle"`
}

// Catalog is the catalog surface the assemblers need. QueuedClient
// implements it.
type Catalog interface {
	catalog.ClientInterface

	// EnqueueGet submits a detail fetch without waiting. The handle
	// resolves to *catalog.Entry.
	EnqueueGet(ctx context.Context, kind catalog.Kind, id int) *queue.Handle
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
