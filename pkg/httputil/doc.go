// Package httputil provides HTTP utilities for fetching remote mind-map
// documents.
//
// # Overview
//
// This package provides the infrastructure behind URL document sources:
//
//   - [Client]: HTTP document fetcher with caching and retry built in
//   - [Cache]: File-based HTTP response caching
//   - [Retry]: Automatic retry with exponential backoff
//
// # Caching
//
// [Cache] stores HTTP responses in the filesystem (~/.cache/conetree/)
// with configurable TTL. Documents referenced by URL rarely change
// between renders, so repeated invocations against the same document are
// served from disk instead of the network.
//
// Usage:
//
//	cache, err := httputil.NewCache("", 24*time.Hour)
//	var data []byte
//	ok, err := cache.Get("doc:"+url, &data)  // Check cache
//	if !ok {
//	    data = fetchFromServer()
//	    cache.Set("doc:"+url, data)          // Store for later
//	}
//
// Cache keys should be namespaced by source to avoid collisions.
//
// # Retry
//
// [Retry] wraps operations with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//
// Rate-limited responses (429) are not retried; they surface as
// [github.com/matzehuels/conetree/pkg/errors.RateLimitedError] carrying
// the server's Retry-After value so callers can decide when to come back.
//
// # Fetching
//
// [Client.FetchDocument] combines validation, caching, and retry:
//
//	client := httputil.NewClient(cache.Namespace("doc:"))
//	data, err := client.FetchDocument(ctx, "https://example.com/map.mm", false)
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Cache directory: ~/.cache/conetree/
//   - Default TTL: 24 hours
//   - Max retries: 3
//   - Base backoff: 1 second
//
// The cache can be cleared via `conetree cache clear` or by deleting the
// cache directory.
package httputil
