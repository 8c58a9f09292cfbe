// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

package catalog

import (
	"context"
	"fmt"

	"github.com/tomtom215/kizuna/internal/queue"
)

// QueuedClient submits every call as one job on the request queue, so all
// callers share Jikan's spacing. Its methods block until the job has run.
//
// The Enqueue methods return the queue handle instead, for callers that
// want to submit a batch in order and then wait for all of it.
type QueuedClient struct {
	client ClientInterface
	queue  *queue.Queue
}

// NewQueuedClient routes calls to client through q.
func NewQueuedClient(client ClientInterface, q *queue.Queue) *QueuedClient {
	return &QueuedClient{client: client, queue: q}
}

// Queue returns the underlying request queue.
func (qc *QueuedClient) Queue() *queue.Queue {
	return qc.queue
}

// Search through the request queue.
func (qc *QueuedClient) Search(ctx context.Context, kind Kind, query SearchQuery) ([]Entry, error) {
	return queue.Do(ctx, qc.queue, "catalog.search", func(ctx context.Context) ([]Entry, error) {
		return qc.client.Search(ctx, kind, query)
	})
}

// Get through the request queue.
func (qc *QueuedClient) Get(ctx context.Context, kind Kind, id int) (*Entry, error) {
	return queue.Await[*Entry](ctx, qc.EnqueueGet(ctx, kind, id))
}

// EnqueueGet submits a detail fetch and returns without waiting. The handle
// resolves to *Entry.
func (qc *QueuedClient) EnqueueGet(ctx context.Context, kind Kind, id int) *queue.Handle {
	return qc.queue.Enqueue(ctx, fmt.Sprintf("catalog.get/%s/%d", kind, id), func(ctx context.Context) (any, error) {
		return qc.client.Get(ctx, kind, id)
	})
}

// Recommendations through the request queue.
func (qc *QueuedClient) Recommendations(ctx context.Context, kind Kind, id int) ([]Reference, error) {
	return queue.Do(ctx, qc.queue, "catalog.recommendations", func(ctx context.Context) ([]Reference, error) {
		return qc.client.Recommendations(ctx, kind, id)
	})
}

// Top through the request queue.
func (qc *QueuedClient) Top(ctx context.Context, kind Kind, query TopQuery) ([]Entry, error) {
	return queue.Do(ctx, qc.queue, "catalog.top", func(ctx context.Context) ([]Entry, error) {
		return qc.client.Top(ctx, kind, query)
	})
}

// Genres through the request queue.
func (qc *QueuedClient) Genres(ctx context.Context, kind Kind) ([]Genre, error) {
	return queue.Do(ctx, qc.queue, "catalog.genres", func(ctx context.Context) ([]Genre, error) {
		return qc.client.Genres(ctx, kind)
	})
}

// Ping through the request queue.
func (qc *QueuedClient) Ping(ctx context.Context) error {
	_, err := qc.queue.Submit(ctx, "catalog.ping", func(ctx context.Context) (any, error) {
		return nil, qc.client.Ping(ctx)
	})
	return err
}
