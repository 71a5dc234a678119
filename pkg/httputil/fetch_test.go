package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	cterrors "github.com/matzehuels/conetree/pkg/errors"
)

const testDoc = `<map version="1.0.1"><node TEXT="Root"/></map>`

func testFetchClient(t *testing.T, withCache bool) *Client {
	t.Helper()
	var cache *Cache
	if withCache {
		var err error
		cache, err = NewCache(t.TempDir(), time.Hour)
		if err != nil {
			t.Fatalf("NewCache failed: %v", err)
		}
	}
	c := NewClient(cache)
	c.delay = time.Millisecond
	return c
}

func TestIsRemote(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{"https://example.com/map.mm", true},
		{"http://intranet/ideas.toml", true},
		{"maps/project.mm", false},
		{"/home/user/map.mm", false},
		{"ftp://example.com/map.mm", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsRemote(tt.source); got != tt.want {
			t.Errorf("IsRemote(%q) = %v, want %v", tt.source, got, tt.want)
		}
	}
}

func TestClient_FetchDocument(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.Header.Get("User-Agent") == "" {
			t.Error("request missing User-Agent header")
		}
		w.Write([]byte(testDoc))
	}))
	defer server.Close()

	c := testFetchClient(t, true)

	body, err := c.FetchDocument(context.Background(), server.URL+"/map.mm", false)
	if err != nil {
		t.Fatalf("FetchDocument failed: %v", err)
	}
	if string(body) != testDoc {
		t.Errorf("got body %q, want %q", body, testDoc)
	}

	// Second fetch should be served from cache.
	body, err = c.FetchDocument(context.Background(), server.URL+"/map.mm", false)
	if err != nil {
		t.Fatalf("cached FetchDocument failed: %v", err)
	}
	if string(body) != testDoc {
		t.Errorf("got cached body %q, want %q", body, testDoc)
	}
	if requests != 1 {
		t.Errorf("got %d requests, want 1", requests)
	}
}

func TestClient_FetchDocument_Refresh(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(testDoc))
	}))
	defer server.Close()

	c := testFetchClient(t, true)

	for range 2 {
		if _, err := c.FetchDocument(context.Background(), server.URL, true); err != nil {
			t.Fatalf("FetchDocument failed: %v", err)
		}
	}
	if requests != 2 {
		t.Errorf("got %d requests, want 2 (refresh must bypass cache)", requests)
	}
}

func TestClient_FetchDocument_NilCache(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(testDoc))
	}))
	defer server.Close()

	c := testFetchClient(t, false)

	for range 2 {
		if _, err := c.FetchDocument(context.Background(), server.URL, false); err != nil {
			t.Fatalf("FetchDocument failed: %v", err)
		}
	}
	if requests != 2 {
		t.Errorf("got %d requests, want 2 (nil cache must not cache)", requests)
	}
}

func TestClient_FetchDocument_NotFound(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := testFetchClient(t, true)

	_, err := c.FetchDocument(context.Background(), server.URL+"/missing.mm", false)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got error %v, want ErrNotFound", err)
	}
	if requests != 1 {
		t.Errorf("got %d requests, want 1 (404 must not be retried)", requests)
	}
}

func TestClient_FetchDocument_RateLimited(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := testFetchClient(t, true)

	_, err := c.FetchDocument(context.Background(), server.URL, false)
	var rle *cterrors.RateLimitedError
	if !errors.As(err, &rle) {
		t.Fatalf("got error %v, want RateLimitedError", err)
	}
	if rle.RetryAfter != 7 {
		t.Errorf("got RetryAfter %d, want 7", rle.RetryAfter)
	}
	if requests != 1 {
		t.Errorf("got %d requests, want 1 (429 must not be retried)", requests)
	}
}

func TestClient_FetchDocument_RetriesServerError(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(testDoc))
	}))
	defer server.Close()

	c := testFetchClient(t, true)

	body, err := c.FetchDocument(context.Background(), server.URL, false)
	if err != nil {
		t.Fatalf("FetchDocument failed: %v", err)
	}
	if string(body) != testDoc {
		t.Errorf("got body %q, want %q", body, testDoc)
	}
	if requests != 2 {
		t.Errorf("got %d requests, want 2 (500 then success)", requests)
	}
}

func TestClient_FetchDocument_ExhaustsRetries(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := testFetchClient(t, true)
	c.attempts = 2

	_, err := c.FetchDocument(context.Background(), server.URL, false)
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("got error %v, want ErrNetwork", err)
	}
	if requests != 2 {
		t.Errorf("got %d requests, want 2", requests)
	}
}

func TestClient_FetchDocument_InvalidURL(t *testing.T) {
	c := testFetchClient(t, false)

	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"ftp scheme", "ftp://example.com/map.mm"},
		{"local path", "maps/project.mm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.FetchDocument(context.Background(), tt.url, false)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !cterrors.Is(err, cterrors.ErrCodeInvalidInput) {
				t.Errorf("got error %v, want code INVALID_INPUT", err)
			}
		})
	}
}
