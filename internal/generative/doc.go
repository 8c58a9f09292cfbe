// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

/*
Package generative produces recommendations with a chat-completion model
instead of the catalog.

The service talks to any OpenAI-compatible endpoint
(POST {base_url}/chat/completions with a bearer key). The prompt carries the
same fields as a catalog request and asks for a JSON array of records. Model
output is free-form text, so parsing is lenient:

  - Markdown code fences are stripped
  - The outermost JSON array is extracted, or an object with a
    "recommendations" array
  - Records without a title are dropped, the rest are capped at the limit

Calls are paced by a client-side token bucket (golang.org/x/time/rate)
configured in requests per minute. This path never touches the catalog
request queue.

When no API key is configured the service reports ErrDisabled.
*/
package generative
