// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

package recommend

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/kizuna/internal/catalog"
	"github.com/tomtom215/kizuna/internal/queue"
)

var errUpstream = errors.New("upstream 500")

// fakeCatalog is a scripted catalog.ClientInterface.
type fakeCatalog struct {
	mu sync.Mutex

	search     map[string][]catalog.Entry // lowercase query -> results
	genreHits  []catalog.Entry
	recs       map[int][]catalog.Reference
	entries    map[int]catalog.Entry
	failGet    map[int]bool
	genres     []catalog.Genre
	top        []catalog.Entry
	failRecs   bool
	failSearch bool
	searchErr  error

	calls      []string
	lastSearch catalog.SearchQuery
	lastTop    catalog.TopQuery
}

func (f *fakeCatalog) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeCatalog) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeCatalog) Search(_ context.Context, _ catalog.Kind, q catalog.SearchQuery) ([]catalog.Entry, error) {
	f.record("search")
	f.mu.Lock()
	f.lastSearch = q
	f.mu.Unlock()
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if f.failSearch {
		return nil, errUpstream
	}
	if len(q.GenreIDs) > 0 {
		return f.genreHits, nil
	}
	return f.search[strings.ToLower(q.Query)], nil
}

func (f *fakeCatalog) Get(_ context.Context, _ catalog.Kind, id int) (*catalog.Entry, error) {
	f.record("get")
	if f.failGet[id] {
		return nil, errUpstream
	}
	e, ok := f.entries[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &e, nil
}

func (f *fakeCatalog) Recommendations(_ context.Context, _ catalog.Kind, id int) ([]catalog.Reference, error) {
	f.record("recommendations")
	if f.failRecs {
		return nil, errUpstream
	}
	return f.recs[id], nil
}

func (f *fakeCatalog) Top(_ context.Context, _ catalog.Kind, q catalog.TopQuery) ([]catalog.Entry, error) {
	f.record("top")
	f.mu.Lock()
	f.lastTop = q
	f.mu.Unlock()
	return f.top, nil
}

func (f *fakeCatalog) Genres(_ context.Context, _ catalog.Kind) ([]catalog.Genre, error) {
	f.record("genres")
	return f.genres, nil
}

func (f *fakeCatalog) Ping(_ context.Context) error {
	f.record("ping")
	return nil
}

// newQueuedCatalog routes fake through a real request queue with a short delay.
func newQueuedCatalog(t *testing.T, fake *fakeCatalog) *catalog.QueuedClient {
	t.Helper()
	q := queue.New(queue.Config{Name: "recommend-test", Delay: 5 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = q.Serve(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return catalog.NewQueuedClient(fake, q)
}

// berserkCatalog is a small manga catalog centred on Berserk.
func berserkCatalog() *fakeCatalog {
	berserk := catalog.Entry{ID: 2, Title: "Berserk", Type: "Manga", Genres: []string{"Action", "Drama", "Seinen"}}
	return &fakeCatalog{
		search: map[string][]catalog.Entry{
			"berserk": {berserk},
		},
		recs: map[int][]catalog.Reference{
			2: {
				{ID: 656, Title: "Vagabond", Votes: 40},
				{ID: 25, Title: "Claymore", Votes: 90},
				{ID: 2, Title: "Berserk", Votes: 5},
				{ID: 13, Title: "One Piece", Votes: 3},
			},
		},
		entries: map[int]catalog.Entry{
			656: {ID: 656, Title: "Vagabond", Type: "Manga", Creators: []string{"Inoue, Takehiko"},
				Genres: []string{"Action", "Drama"}, Synopsis: "A swordsman's journey. [Written by MAL Rewrite]", Chapters: 327},
			25: {ID: 25, Title: "Claymore", Type: "Manga", Creators: []string{"Yagi, Norihiro"},
				Genres: []string{"Action", "Fantasy"}, Synopsis: "Half-demon warriors hunt monsters."},
			13: {ID: 13, Title: "One Piece", Type: "Manga", Genres: []string{"Adventure", "Comedy"}},
		},
		genres: []catalog.Genre{{ID: 1, Name: "Action"}, {ID: 8, Name: "Drama"}, {ID: 22, Name: "Romance"}},
		top: []catalog.Entry{
			{ID: 2, Title: "Berserk", Type: "Manga"},
			{ID: 1706, Title: "JoJo no Kimyou na Bouken Part 7: Steel Ball Run", Type: "Manga", Genres: []string{"Adventure"}},
			{ID: 51, Title: "Slam Dunk", Type: "Manga", Genres: []string{"Sports"}},
		},
	}
}
