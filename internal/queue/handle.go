// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

package queue

import (
	"context"
	"fmt"
	"sync"
)

// Handle is the completion handle of a submitted job. It settles exactly once,
// with either the job's value or its error.
type Handle struct {
	id   string
	done chan struct{}
	once sync.Once

	value any
	err   error
}

func newHandle(id string) *Handle {
	return &Handle{id: id, done: make(chan struct{})}
}

// ID returns the job identifier assigned at submission.
func (h *Handle) ID() string {
	return h.id
}

// Done returns a channel that is closed once the job has settled.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Result blocks until the job settles and returns its outcome.
func (h *Handle) Result() (any, error) {
	<-h.done
	return h.value, h.err
}

// Wait blocks until the job settles or ctx ends. Returning early because of
// ctx does not cancel the job.
func (h *Handle) Wait(ctx context.Context) (any, error) {
	select {
	case <-h.done:
		return h.value, h.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// resolve settles the handle. Later calls are ignored.
func (h *Handle) resolve(value any, err error) bool {
	settled := false
	h.once.Do(func() {
		h.value = value
		h.err = err
		close(h.done)
		settled = true
	})
	return settled
}

// Await waits for h and converts its value to T.
// A nil value yields the zero T.
func Await[T any](ctx context.Context, h *Handle) (T, error) {
	var zero T
	v, err := h.Wait(ctx)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("job %s returned %T, want %T", h.id, v, zero)
	}
	return out, nil
}
