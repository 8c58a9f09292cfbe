// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

package generative

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/kizuna/internal/recommend"
)

// modelRecord is the lenient shape of one model-produced record. Genres may
// arrive as an array or a comma-separated string, counts as numbers or strings.
type modelRecord struct {
	Title       string          `json:"title"`
	Creator     string          `json:"creator"`
	Author      string          `json:"author"`
	Studio      string          `json:"studio"`
	Type        string          `json:"type"`
	Genres      json.RawMessage `json:"genres"`
	Description string          `json:"description"`
	SimilarTo   string          `json:"similarTo"`
	Reason      string          `json:"reason"`
	Chapters    json.RawMessage `json:"chapters"`
	Episodes    json.RawMessage `json:"episodes"`
}

// parseRecommendations extracts up to limit records from model output.
func parseRecommendations(output string, media recommend.MediaType, limit int) ([]recommend.Recommendation, error) {
	payload, err := extractJSON(output)
	if err != nil {
		return nil, err
	}

	var records []modelRecord
	if payload[0] == '[' {
		if err := json.Unmarshal(payload, &records); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
		}
	} else {
		var wrapped struct {
			Recommendations []modelRecord `json:"recommendations"`
		}
		if err := json.Unmarshal(payload, &wrapped); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
		}
		records = wrapped.Recommendations
	}

	recs := make([]recommend.Recommendation, 0, min(len(records), limit))
	seen := make(map[string]bool, len(records))
	for i := range records {
		rec, ok := records[i].normalize(media)
		if !ok || seen[strings.ToLower(rec.Title)] {
			continue
		}
		seen[strings.ToLower(rec.Title)] = true
		recs = append(recs, rec)
		if len(recs) == limit {
			break
		}
	}

	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: no usable recommendations", ErrInvalidOutput)
	}
	return recs, nil
}

// extractJSON strips code fences and returns the outermost JSON array, or
// failing that the outermost JSON object.
func extractJSON(output string) ([]byte, error) {
	s := strings.TrimSpace(output)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:] // drop the language tag
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}

	for _, pair := range [][2]byte{{'[', ']'}, {'{', '}'}} {
		start := strings.IndexByte(s, pair[0])
		end := strings.LastIndexByte(s, pair[1])
		if start < 0 || end <= start {
			continue
		}
		candidate := []byte(s[start : end+1])
		if json.Valid(candidate) {
			return bytes.TrimSpace(candidate), nil
		}
	}
	return nil, fmt.Errorf("%w: no JSON found in model output", ErrInvalidOutput)
}

func (m *modelRecord) normalize(media recommend.MediaType) (recommend.Recommendation, bool) {
	title := strings.TrimSpace(m.Title)
	if title == "" {
		return recommend.Recommendation{}, false
	}

	creator := firstNonEmpty(m.Creator, m.Author, m.Studio, "Unknown")
	rec := recommend.Recommendation{
		Title:       title,
		Creator:     creator,
		Type:        firstNonEmpty(m.Type, string(media)),
		Genres:      parseGenres(m.Genres),
		Description: strings.TrimSpace(m.Description),
		SimilarTo:   strings.TrimSpace(m.SimilarTo),
		Reason:      strings.TrimSpace(m.Reason),
		Source:      recommend.SourceGenerative,
	}
	if media == recommend.MediaAnime {
		rec.Episodes = toInt(m.Episodes)
	} else {
		rec.Chapters = toInt(m.Chapters)
	}
	return rec, true
}

func parseGenres(raw json.RawMessage) []string {
	genres := []string{}
	if len(raw) == 0 {
		return genres
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		var joined string
		if err := json.Unmarshal(raw, &joined); err != nil {
			return genres
		}
		list = strings.Split(joined, ",")
	}
	for _, g := range list {
		if g = strings.TrimSpace(g); g != "" {
			genres = append(genres, g)
		}
	}
	return genres
}

func toInt(raw json.RawMessage) int {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil && f > 0 {
		return int(f)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
