package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/conetree/pkg/buildinfo"
	cterrors "github.com/matzehuels/conetree/pkg/errors"
	"github.com/matzehuels/conetree/pkg/observability"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when the document URL resolves to a 404.
	ErrNotFound = errors.New("document not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// IsRemote reports whether source names a remote document rather than a
// local file. Only http and https URLs are treated as remote.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// NewHTTPClient creates an HTTP client with a standard timeout for
// document requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// Client fetches remote mind-map documents over HTTP.
//
// Fetched bodies are cached so that repeated renders of the same URL skip
// the network; transient failures are retried with exponential backoff.
// A Client is safe for concurrent use only if its Cache is (see [Cache]);
// the CLI uses one Client per invocation.
type Client struct {
	http     *http.Client
	cache    *Cache
	attempts int
	delay    time.Duration
}

// NewClient creates a Client that stores responses in cache. Pass a
// namespaced view (e.g. cache.Namespace("doc:")) so document bodies keep
// clear of other cached data. A nil cache disables caching and every
// fetch goes to the network.
func NewClient(cache *Cache) *Client {
	return &Client{
		http:     NewHTTPClient(),
		cache:    cache,
		attempts: 3,
		delay:    time.Second,
	}
}

// FetchDocument retrieves the document at rawURL and returns its raw
// bytes. The body is returned as-is; format detection and parsing happen
// downstream.
//
// If refresh is false and a fresh cached copy exists, the cache is used
// and no request is made. On success the body is written back to the
// cache, restarting its TTL.
//
// Errors:
//   - Invalid or non-http(s) URLs fail validation before any request.
//   - 404 responses return [ErrNotFound].
//   - 429 responses return a [cterrors.RateLimitedError] carrying the
//     server's Retry-After value; they are not retried.
//   - Connection failures and 5xx responses are retried with backoff and
//     surface as [ErrNetwork] once attempts are exhausted.
func (c *Client) FetchDocument(ctx context.Context, rawURL string, refresh bool) ([]byte, error) {
	if err := cterrors.ValidateURL(rawURL); err != nil {
		return nil, err
	}

	var body []byte
	if !refresh && c.cache != nil {
		if ok, _ := c.cache.Get(rawURL, &body); ok {
			return body, nil
		}
	}

	err := Retry(ctx, c.attempts, c.delay, func() error {
		var ferr error
		body, ferr = c.fetch(ctx, rawURL)
		return ferr
	})
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		_ = c.cache.Set(rawURL, body)
	}
	return body, nil
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	observability.HTTP().OnRequest(ctx, http.MethodGet, req.URL.Host, req.URL.Path)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodGet, req.URL.Host, req.URL.Path, err)
		return nil, &RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, http.MethodGet, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	return body, nil
}

func checkStatus(resp *http.Response) error {
	switch code := resp.StatusCode; {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests:
		return &cterrors.RateLimitedError{RetryAfter: retryAfterSeconds(resp)}
	case code >= 500:
		return &RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

func retryAfterSeconds(resp *http.Response) int {
	n, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
