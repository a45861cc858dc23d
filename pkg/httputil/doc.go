// Package httputil fetches graph payloads over HTTP(S).
//
// [Client] wraps an *http.Client with three behaviors:
//
//   - responses are cached by URL in a [cache.Cache] with a TTL
//   - transient failures (network errors, 5xx, 429) are retried with a
//     doubling [Backoff]; a 429 Retry-After header lengthens the wait
//   - every request reports to the [observability.HTTPHooks] registry
//
// Errors carry codes from pkg/errors: NOT_FOUND for 404, RATE_LIMITED for
// 429 and NETWORK_ERROR otherwise.
//
//	c := httputil.NewClient(fileCache, time.Hour, nil)
//	data, err := c.Fetch(ctx, "https://example.org/coauthors.json", false)
//
// [Backoff.Do] is usable on its own. Only errors wrapped with [Retryable]
// or [RetryAfter] are retried.
package httputil
