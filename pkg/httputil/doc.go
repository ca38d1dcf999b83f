// Package httputil provides HTTP utilities for the extraction client.
//
// # Overview
//
// This package provides infrastructure used by clients of the external
// extraction service:
//
//   - [Cache]: File-based HTTP response caching
//   - [Retry]: Automatic retry with exponential backoff
//
// # Caching
//
// [Cache] stores HTTP responses in the filesystem (~/.cache/lineascope/)
// with configurable TTL. Extraction calls are slow and billed per request,
// so repeated runs over unchanged SQL should never hit the service twice.
//
// Usage:
//
//	cache, err := httputil.NewCache("", 24 * time.Hour)
//	ok, err := cache.Get("extract:"+sqlHash, &graph)  // Check cache
//	if !ok {
//	    graph = callExtractionService()
//	    cache.Set("extract:"+sqlHash, graph)          // Store for later
//	}
//
// Cache keys should be namespaced by service to avoid collisions.
//
// # Retry
//
// [Retry] wraps HTTP requests with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// It uses exponential backoff to avoid hammering a struggling service:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return callService()
//	})
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Cache directory: ~/.cache/lineascope/
//   - Default TTL: 24 hours
//   - Max retries: 3
//   - Base backoff: 1 second
//
// The cache can be cleared via `lineascope cache clear` or by deleting
// the cache directory.
package httputil
