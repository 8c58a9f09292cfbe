// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

package recommend

import (
	"strings"

	"github.com/tomtom215/kizuna/internal/catalog"
)

// profile captures what differs between the manga, manhwa and anime assemblers.
type profile struct {
	media catalog.Kind

	// searchType narrows title and genre searches. Empty searches all types.
	searchType string

	// topType selects the top-ranked list used as last fallback.
	topType string

	// requiredType, if set, is the only entry type kept (case-insensitive).
	requiredType string

	// noun is used in rationale text.
	noun string

	mediaType MediaType
}

var profiles = map[MediaType]profile{
	MediaManga: {
		media:     catalog.KindManga,
		topType:   "manga",
		noun:      "manga",
		mediaType: MediaManga,
	},
	MediaManhwa: {
		media:        catalog.KindManga,
		searchType:   "manhwa",
		topType:      "manhwa",
		requiredType: "Manhwa",
		noun:         "manhwa",
		mediaType:    MediaManhwa,
	},
	MediaAnime: {
		media:     catalog.KindAnime,
		noun:      "anime",
		mediaType: MediaAnime,
	},
}

// accepts reports whether an entry of type t belongs to the profile.
func (p profile) accepts(t string) bool {
	return p.requiredType == "" || strings.EqualFold(t, p.requiredType)
}
