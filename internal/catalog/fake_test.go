// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

package catalog

import (
	"context"
	"sync"
	"time"
)

// fakeClient records call start times and returns canned data.
type fakeClient struct {
	mu     sync.Mutex
	starts []time.Time
	calls  []string
	err    error
}

func (f *fakeClient) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts = append(f.starts, time.Now())
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeClient) Search(_ context.Context, _ Kind, q SearchQuery) ([]Entry, error) {
	if err := f.record("search:" + q.Query); err != nil {
		return nil, err
	}
	return []Entry{{ID: 1, Title: q.Query}}, nil
}

func (f *fakeClient) Get(_ context.Context, _ Kind, id int) (*Entry, error) {
	if err := f.record("get"); err != nil {
		return nil, err
	}
	return &Entry{ID: id, Title: "entry"}, nil
}

func (f *fakeClient) Recommendations(_ context.Context, _ Kind, id int) ([]Reference, error) {
	if err := f.record("recommendations"); err != nil {
		return nil, err
	}
	return []Reference{{ID: id + 1, Votes: 3}}, nil
}

func (f *fakeClient) Top(_ context.Context, _ Kind, _ TopQuery) ([]Entry, error) {
	if err := f.record("top"); err != nil {
		return nil, err
	}
	return []Entry{{ID: 7}}, nil
}

func (f *fakeClient) Genres(_ context.Context, _ Kind) ([]Genre, error) {
	if err := f.record("genres"); err != nil {
		return nil, err
	}
	return []Genre{{ID: 1, Name: "Action"}}, nil
}

func (f *fakeClient) Ping(_ context.Context) error {
	return f.record("ping")
}

func (f *fakeClient) snapshot() ([]time.Time, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Time(nil), f.starts...), append([]string(nil), f.calls...)
}
