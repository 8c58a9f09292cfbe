// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

package recommend

import (
	"strings"

	"github.com/tomtom215/kizuna/internal/catalog"
)

// filter holds the per-request keep/drop rules.
type filter struct {
	profile profile
	baseID  int
	liked   map[string]bool
	exclude map[string]bool
	genres  map[string]bool
}

func newFilter(p profile, req Request, base *catalog.Entry) *filter {
	f := &filter{
		profile: p,
		baseID:  base.ID,
		liked:   lowerSet(req.Titles),
		exclude: lowerSet(req.Exclude),
		genres:  lowerSet(req.Genres),
	}
	f.liked[strings.ToLower(base.Title)] = true
	if base.EnglishTitle != "" {
		f.liked[strings.ToLower(base.EnglishTitle)] = true
	}
	return f
}

// excludedTitle reports whether title was liked or explicitly excluded.
func (f *filter) excludedTitle(title string) bool {
	t := strings.ToLower(strings.TrimSpace(title))
	return f.liked[t] || f.exclude[t]
}

// keep applies every filter to a fully fetched entry.
func (f *filter) keep(e *catalog.Entry) bool {
	if e.ID == f.baseID || !f.profile.accepts(e.Type) {
		return false
	}
	if f.excludedTitle(e.Title) || (e.EnglishTitle != "" && f.excludedTitle(e.EnglishTitle)) {
		return false
	}

	matchedGenre := len(f.genres) == 0
	for _, g := range e.Genres {
		lg := strings.ToLower(g)
		if f.exclude[lg] {
			return false
		}
		if f.genres[lg] {
			matchedGenre = true
		}
	}
	return matchedGenre
}

// collect filters fallback entries into candidates.
func (f *filter) collect(entries []catalog.Entry, source Source) []candidate {
	out := make([]candidate, 0, len(entries))
	for i := range entries {
		if f.keep(&entries[i]) {
			out = append(out, candidate{entry: entries[i], source: source})
		}
	}
	return out
}

// dedup keeps the first candidate for each id, preserving order.
func (f *filter) dedup(in []candidate) []candidate {
	seen := make(map[int]bool, len(in))
	out := in[:0]
	for _, c := range in {
		if seen[c.entry.ID] {
			continue
		}
		seen[c.entry.ID] = true
		out = append(out, c)
	}
	return out
}

func lowerSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			set[v] = true
		}
	}
	return set
}
