// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

/*
Package catalog provides the upstream client for the Jikan v4 API, an
unofficial read-only mirror of MyAnimeList.

Jikan enforces a strict request rate per client. This package does not pace
requests itself: every call made by the recommendation assemblers goes through
QueuedClient, which submits it as one job to the process-wide request queue
(see package queue). The layering is:

	QueuedClient        one queue job per call, FIFO, fixed spacing
	  CircuitBreakerClient  fails fast while Jikan is unhealthy
	    Client              HTTP, HTTP 429 retry, JSON decoding

Operations:

  - Search: GET /{kind}?q=...&type=...&genres=...&order_by=...&sort=...
  - Get: GET /{kind}/{id}
  - Recommendations: GET /{kind}/{id}/recommendations
  - Top: GET /top/{kind}?type=...
  - Genres: GET /genres/{kind}
  - Ping: GET /genres/{kind}?filter=demographics

Responses are normalized into Entry, Reference and Genre. Manga entries carry
their authors as Creators and their chapter count; anime entries carry their
studios and episode count.

A 404 from Get or Recommendations is reported as ErrNotFound and does not count
against the circuit breaker.

Thread Safety: all clients are safe for concurrent use.
*/
package catalog
