// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

/*
Package queue serializes calls to a rate-limited upstream API.

A Queue runs submitted jobs one at a time, in the order they were submitted,
and waits a fixed delay after each job's outcome has been delivered before it
starts the next one. The upstream catalog allows roughly one request per
second, so every outbound catalog call in the service goes through a single
shared Queue.

# Architecture

A single consumer goroutine (Serve) owns execution and delay timing. Producers
append to a mutex-guarded pending slice and signal a one-slot wake channel.
Each job gets its own Handle, which is settled exactly once:

	Producer ──Enqueue──► pending []*task ──wake──► Serve loop
	                                                  │
	                                     run job ◄────┘
	                                        │
	                         resolve Handle │ (outcome delivered immediately)
	                                        ▼
	                                  wait Delay
	                                        │
	                           next job, or block on wake (no timers)

# Guarantees

  - At most one job executes at any instant.
  - Jobs start in submission order. There is no priority or preemption.
  - The delay runs after every job, successful or not.
  - A job that returns an error, panics, or exceeds JobTimeout settles only its
    own Handle. The loop moves on to the next job.
  - When Serve stops, jobs still pending are rejected with ErrStopped.

A caller that stops waiting (its context ends) does not remove its job. The
job still runs and still occupies its slot; only the wait is abandoned. Job
contexts keep the caller's values (request IDs for logging) but never its
cancellation.

# Usage

	q := queue.New(queue.Config{Name: "catalog", Delay: time.Second})
	go q.Serve(ctx) // usually added to the supervisor tree instead

	entry, err := queue.Do(ctx, q, "manga.get", func(ctx context.Context) (*catalog.Entry, error) {
	    return client.Get(ctx, catalog.KindManga, 13)
	})

Independent requests can be enqueued together and awaited afterwards:

	handles := make([]*queue.Handle, len(ids))
	for i, id := range ids {
	    handles[i] = q.Enqueue(ctx, "manga.get", fetch(id))
	}
	for _, h := range handles {
	    entry, err := queue.Await[*catalog.Entry](ctx, h)
	    ...
	}
*/
package queue
