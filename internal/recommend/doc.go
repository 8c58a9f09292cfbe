// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

// Package recommend assembles catalog-backed recommendation lists for manga,
// manhwa and anime.
//
// # Pipeline
//
// Each request runs the same pipeline against a media profile:
//
//  1. Match: the first two liked titles are searched in order; the first hit
//     is the base title. No hit for either returns ErrNoMatch.
//  2. Recommendations: crowd-sourced recommendations of the base title.
//  3. Candidates: liked and excluded titles are dropped, the most-voted
//     remain (up to RecommendConfig.DetailFetches).
//  4. Details: one detail job per candidate, all enqueued before any is
//     awaited so the batch keeps its order on the request queue. A failed
//     fetch is skipped.
//  5. Filters: excluded titles and genres, requested genres and the profile's
//     print type (manhwa keeps Manhwa entries only).
//  6. Genre fallback: requested genre names are resolved to ids and a
//     score-ordered search fills the gap.
//  7. Top fallback: the profile's top-ranked list fills what is left.
//  8. Output: deduplicated by id, capped, normalized to Recommendation.
//
// Every catalog call is a job on the shared request queue, so one request
// costs at least (calls - 1) x queue delay of wall time.
//
// # Profiles
//
//   - manga: kind manga, any print type, creators are authors
//   - manhwa: kind manga, type manhwa, creators are authors
//   - anime: kind anime, creators are studios, episode counts
//
// # Caching
//
// Service caches complete responses keyed by the normalized request.
//
// # Thread Safety
//
// Assembler and Service are safe for concurrent use.
package recommend
