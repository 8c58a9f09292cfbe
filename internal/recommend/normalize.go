// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

package recommend

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/tomtom215/kizuna/internal/catalog"
)

const (
	maxDescriptionRunes = 600
	unknownCreator      = "Unknown"
)

// sourceNote matches the attribution suffix Jikan appends to synopses,
// e.g. "[Written by MAL Rewrite]" or "(Source: Yen Press)".
var sourceNote = regexp.MustCompile(`\s*[\[(](?:Written by|Source:)[^\])]*[\])]\s*$`)

// normalize converts a candidate into the public record.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (a *Assembler) normalize(c *candidate, base *catalog.Entry, req Request) Recommendation {
	e := &c.entry

	creator := strings.Join(e.Creators, ", ")
	if creator == "" {
		creator = unknownCreator
	}

	rec := Recommendation{
		Title:       e.DisplayTitle(),
		Creator:     creator,
		Type:        e.Type,
		Genres:      e.Genres,
		Description: cleanSynopsis(e.Synopsis),
		SimilarTo:   base.DisplayTitle(),
		Reason:      a.rationale(c, base, req.Preferences),
		ImageURL:    e.ImageURL,
		URL:         e.URL,
		Score:       e.Score,
		Source:      c.source,
	}
	if rec.Genres == nil {
		rec.Genres = []string{}
	}
	if rec.Type == "" {
		rec.Type = a.profile.noun
	}
	if a.profile.media == catalog.KindAnime {
		rec.Episodes = e.Episodes
	} else {
		rec.Chapters = e.Chapters
	}
	return rec
}

// rationale explains why a candidate was picked.
func (a *Assembler) rationale(c *candidate, base *catalog.Entry, preferences string) string {
	var parts []string

	switch c.source {
	case SourceRecommendation:
		if c.votes == 1 {
			parts = append(parts, fmt.Sprintf("Recommended by 1 fan of %s.", base.DisplayTitle()))
		} else {
			parts = append(parts, fmt.Sprintf("Recommended by %d fans of %s.", c.votes, base.DisplayTitle()))
		}
	case SourceGenre:
		parts = append(parts, fmt.Sprintf("A top-rated %s in the genres you asked for.", a.profile.noun))
	default:
		parts = append(parts, fmt.Sprintf("One of the highest-ranked %s on MyAnimeList.", a.profile.noun))
	}

	if shared := sharedGenres(c.entry.Genres, base.Genres); len(shared) > 0 {
		parts = append(parts, fmt.Sprintf("Shares %s with %s.", strings.Join(shared, ", "), base.DisplayTitle()))
	}

	if matched := matchPreferences(&c.entry, preferences); len(matched) > 0 {
		parts = append(parts, fmt.Sprintf("Matches your interest in %s.", strings.Join(matched, ", ")))
	}

	return strings.Join(parts, " ")
}

// sharedGenres returns up to three genres present in both lists, in a's order.
func sharedGenres(a, b []string) []string {
	set := lowerSet(b)
	var out []string
	for _, g := range a {
		if set[strings.ToLower(g)] {
			out = append(out, g)
			if len(out) == 3 {
				break
			}
		}
	}
	return out
}

// matchPreferences returns the preference keywords found in the entry's
// genres or synopsis.
func matchPreferences(e *catalog.Entry, preferences string) []string {
	if preferences == "" {
		return nil
	}

	haystack := strings.ToLower(e.Synopsis + " " + strings.Join(e.Genres, " "))
	seen := make(map[string]bool)
	var out []string
	for _, word := range strings.FieldsFunc(strings.ToLower(preferences), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	}) {
		if len([]rune(word)) < 4 || seen[word] {
			continue
		}
		seen[word] = true
		if strings.Contains(haystack, word) {
			out = append(out, word)
		}
	}
	return out
}

// cleanSynopsis strips the attribution suffix and caps the length on a word boundary.
func cleanSynopsis(s string) string {
	s = strings.TrimSpace(sourceNote.ReplaceAllString(strings.TrimSpace(s), ""))
	if s == "" {
		return "No description available."
	}

	runes := []rune(s)
	if len(runes) <= maxDescriptionRunes {
		return s
	}
	cut := string(runes[:maxDescriptionRunes])
	if i := strings.LastIndexAny(cut, " \n"); i > maxDescriptionRunes/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "..."
}
