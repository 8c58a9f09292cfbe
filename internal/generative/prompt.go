// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

package generative

import (
	"fmt"
	"strings"

	"github.com/tomtom215/kizuna/internal/recommend"
)

const systemPrompt = `You are an expert librarian for manga, manhwa and anime. ` +
	`You only answer with JSON. Never include commentary outside the JSON.`

// buildPrompt renders the user message for req.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func buildPrompt(req recommend.Request, limit int) string {
	var b strings.Builder

	noun := string(req.MediaType)
	creator := "author"
	count := "chapters"
	if req.MediaType == recommend.MediaAnime {
		creator = "studio"
		count = "episodes"
	}

	fmt.Fprintf(&b, "Recommend %d %s titles for someone who enjoyed: %s.\n", limit, noun, strings.Join(req.Titles, "; "))
	if req.Preferences != "" {
		fmt.Fprintf(&b, "Their preferences: %s.\n", req.Preferences)
	}
	if len(req.Genres) > 0 {
		fmt.Fprintf(&b, "Only include titles in these genres: %s.\n", strings.Join(req.Genres, ", "))
	}
	if len(req.Exclude) > 0 {
		fmt.Fprintf(&b, "Do not include these titles or genres: %s.\n", strings.Join(req.Exclude, ", "))
	}
	b.WriteString("Do not recommend any title from the list they enjoyed.\n")
	if req.MediaType == recommend.MediaManhwa {
		b.WriteString("Only recommend Korean manhwa (webtoons included).\n")
	}

	fmt.Fprintf(&b, "Respond with a JSON array of exactly %d objects with these keys: ", limit)
	fmt.Fprintf(&b, `"title", "creator" (the %s), "type", "genres" (array of strings), `, creator)
	fmt.Fprintf(&b, `"description" (two sentences), "similarTo" (which enjoyed title it resembles), `)
	fmt.Fprintf(&b, `"reason" (why they would like it), "%s" (number, 0 if unknown).`, count)

	return b.String()
}
