// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tomtom215/kizuna/internal/catalog"
	"github.com/tomtom215/kizuna/internal/logging"
	"github.com/tomtom215/kizuna/internal/metrics"
	"github.com/tomtom215/kizuna/internal/queue"
)

// maxMatchTitles is how many liked titles are tried when matching.
const maxMatchTitles = 2

// Options bounds the work an assembler does per request.
type Options struct {
	MaxResults    int // Hard cap on returned records
	DetailFetches int // Detail jobs issued for crowd recommendations
	FallbackPool  int // Entries requested from genre and top fallbacks
}

// DefaultOptions returns the defaults used when a field is not positive.
func DefaultOptions() Options {
	return Options{
		MaxResults:    10,
		DetailFetches: 8,
		FallbackPool:  25,
	}
}

// Assembler builds recommendation lists for one media profile.
type Assembler struct {
	catalog Catalog
	profile profile
	opts    Options
}

// NewAssembler creates the assembler for media.
func NewAssembler(cat Catalog, media MediaType, opts Options) (*Assembler, error) {
	p, ok := profiles[media]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMediaType, media)
	}

	def := DefaultOptions()
	if opts.MaxResults <= 0 {
		opts.MaxResults = def.MaxResults
	}
	if opts.DetailFetches <= 0 {
		opts.DetailFetches = def.DetailFetches
	}
	if opts.FallbackPool <= 0 {
		opts.FallbackPool = def.FallbackPool
	}

	return &Assembler{catalog: cat, profile: p, opts: opts}, nil
}

// candidate is an entry on its way to becoming a Recommendation.
type candidate struct {
	entry  catalog.Entry
	source Source
	votes  int
}

// Assemble runs the pipeline for a normalized request.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (a *Assembler) Assemble(ctx context.Context, req Request) (*Response, error) {
	logger := logging.Ctx(ctx).With().
		Str("component", "recommend").
		Str("media_type", string(a.profile.mediaType)).
		Logger()

	limit := req.Limit
	if limit <= 0 || limit > a.opts.MaxResults {
		limit = a.opts.MaxResults
	}

	base, err := a.match(ctx, req.Titles)
	if err != nil {
		return nil, err
	}
	logger.Debug().Int("base_id", base.ID).Str("base_title", base.Title).Msg("Matched base title")

	f := newFilter(a.profile, req, base)

	refs := a.candidates(ctx, base, f)
	results, err := a.details(ctx, refs, f)
	if err != nil {
		return nil, err
	}
	results = f.dedup(results)

	if len(results) < limit && len(req.Genres) > 0 {
		extra := a.genreFallback(ctx, req.Genres, f)
		if len(extra) > 0 {
			metrics.RecordFallback(string(a.profile.mediaType), string(SourceGenre))
		}
		results = f.dedup(append(results, extra...))
	}

	if len(results) < limit {
		extra := a.topFallback(ctx, f)
		if len(extra) > 0 {
			metrics.RecordFallback(string(a.profile.mediaType), string(SourceTop))
		}
		results = f.dedup(append(results, extra...))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(results) > limit {
		results = results[:limit]
	}

	recs := make([]Recommendation, 0, len(results))
	for i := range results {
		recs = append(recs, a.normalize(&results[i], base, req))
	}

	logger.Debug().
		Int("recommendations", len(recs)).
		Int("limit", limit).
		Msg("Recommendations assembled")

	return &Response{
		Recommendations: recs,
		BaseTitle:       base.DisplayTitle(),
	}, nil
}

// match searches the first liked titles in order and returns the first hit,
// preferring an entry of the profile's type.
func (a *Assembler) match(ctx context.Context, titles []string) (*catalog.Entry, error) {
	for i, title := range titles {
		if i >= maxMatchTitles {
			break
		}

		entries, err := a.catalog.Search(ctx, a.profile.media, catalog.SearchQuery{
			Query: title,
			Type:  a.profile.searchType,
			Limit: 5,
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if catalog.IsUnavailable(err) || errors.Is(err, queue.ErrStopped) {
				return nil, fmt.Errorf("title search: %w", err)
			}
			logging.Ctx(ctx).Warn().Err(err).Str("title", title).Msg("Title search failed")
			continue
		}
		if len(entries) == 0 {
			continue
		}

		for j := range entries {
			if a.profile.accepts(entries[j].Type) {
				return &entries[j], nil
			}
		}
		return &entries[0], nil
	}
	return nil, fmt.Errorf("%w for %s", ErrNoMatch, strings.Join(titles[:min(len(titles), maxMatchTitles)], ", "))
}

// candidates returns the most-voted crowd recommendations for base that are
// not liked or excluded.
func (a *Assembler) candidates(ctx context.Context, base *catalog.Entry, f *filter) []catalog.Reference {
	refs, err := a.catalog.Recommendations(ctx, a.profile.media, base.ID)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Int("base_id", base.ID).Msg("Recommendations lookup failed, using fallbacks")
		return nil
	}

	kept := make([]catalog.Reference, 0, len(refs))
	for _, r := range refs {
		if r.ID == base.ID || f.excludedTitle(r.Title) {
			continue
		}
		kept = append(kept, r)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Votes > kept[j].Votes
	})
	if len(kept) > a.opts.DetailFetches {
		kept = kept[:a.opts.DetailFetches]
	}
	return kept
}

// details enqueues one detail job per reference, then waits for all of them.
// Failed fetches are skipped.
func (a *Assembler) details(ctx context.Context, refs []catalog.Reference, f *filter) ([]candidate, error) {
	handles := make([]*queue.Handle, len(refs))
	for i, r := range refs {
		handles[i] = a.catalog.EnqueueGet(ctx, a.profile.media, r.ID)
	}

	out := make([]candidate, 0, len(refs))
	for i, h := range handles {
		entry, err := queue.Await[*catalog.Entry](ctx, h)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logging.Ctx(ctx).Debug().Err(err).Int("id", refs[i].ID).Msg("Detail fetch failed, skipping")
			continue
		}
		if entry == nil || !f.keep(entry) {
			continue
		}
		out = append(out, candidate{entry: *entry, source: SourceRecommendation, votes: refs[i].Votes})
	}
	return out, nil
}

// genreFallback resolves genre names to ids and searches by score.
func (a *Assembler) genreFallback(ctx context.Context, names []string, f *filter) []candidate {
	genres, err := a.catalog.Genres(ctx, a.profile.media)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Genre list failed, skipping genre fallback")
		return nil
	}

	ids := resolveGenres(genres, names)
	if len(ids) == 0 {
		logging.Ctx(ctx).Debug().Strs("genres", names).Msg("No requested genre is known to the catalog")
		return nil
	}

	entries, err := a.catalog.Search(ctx, a.profile.media, catalog.SearchQuery{
		Type:     a.profile.searchType,
		GenreIDs: ids,
		OrderBy:  "score",
		Sort:     "desc",
		Limit:    a.opts.FallbackPool,
	})
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Genre search failed")
		return nil
	}
	return f.collect(entries, SourceGenre)
}

// topFallback returns the profile's top-ranked entries.
func (a *Assembler) topFallback(ctx context.Context, f *filter) []candidate {
	entries, err := a.catalog.Top(ctx, a.profile.media, catalog.TopQuery{
		Type:  a.profile.topType,
		Limit: a.opts.FallbackPool,
	})
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Top list failed")
		return nil
	}
	return f.collect(entries, SourceTop)
}

// resolveGenres maps genre names to catalog ids, case-insensitively.
func resolveGenres(genres []catalog.Genre, names []string) []int {
	byName := make(map[string]int, len(genres))
	for _, g := range genres {
		byName[strings.ToLower(g.Name)] = g.ID
	}

	ids := make([]int, 0, len(names))
	seen := make(map[int]bool, len(names))
	for _, n := range names {
		id, ok := byName[strings.ToLower(strings.TrimSpace(n))]
		if ok && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// IsClientError reports whether err is caused by the request itself.
func IsClientError(err error) bool {
	return errors.Is(err, ErrNoTitles) || errors.Is(err, ErrInvalidMediaType)
}
