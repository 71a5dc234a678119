// Package cache provides caching for pipeline stages and HTTP responses.
//
// Three backends implement the [Cache] interface: [FileCache] for CLI
// usage, [RedisCache] for serve mode, and [NullCache] to disable caching.
// Keys for the pipeline stages are generated by a [Keyer], so every stage
// result (parsed tree, computed layout, rendered artifact) is addressed by
// the content hash of its inputs plus the options that shaped it.
package cache

import (
	"context"
	"time"
)

// Cache is the common interface for all cache backends.
//
// A miss is not an error: Get returns (nil, false, nil) when the key is
// absent or expired. Errors indicate backend failures only.
type Cache interface {
	// Get retrieves a value from the cache.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Stage TTLs. Parsed trees and layouts are cheap to recompute but
// fetched documents may be remote, so trees keep the longest lifetime.
const (
	TTLDocument = 24 * time.Hour
	TTLLayout   = 12 * time.Hour
	TTLArtifact = 6 * time.Hour
)

// Keyer generates cache keys for pipeline stages.
//
// Stage keys chain content hashes: the document hash keys the parsed tree,
// the tree hash plus layout options keys the layout, and the layout hash
// plus render options keys the artifact. Changing any upstream input or
// option therefore invalidates everything downstream.
type Keyer interface {
	// HTTPKey generates a key for HTTP response caching.
	HTTPKey(namespace, url string) string

	// DocumentKey generates a key for parsed tree caching.
	DocumentKey(format, docHash string) string

	// LayoutKey generates a key for computed layout caching.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string

	// ArtifactKey generates a key for rendered artifact caching.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the options that shape a computed layout.
type LayoutKeyOpts struct {
	Axis         string  `json:"axis"`
	LevelHeight  float64 `json:"level_height"`
	RadiusFactor float64 `json:"radius_factor"`
	BottomMargin float64 `json:"bottom_margin"`
	Proportional bool    `json:"proportional"`
}

// ArtifactKeyOpts are the options that shape a rendered artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Style  string `json:"style"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	// View digests camera and selection overrides; empty for the
	// default view.
	View string `json:"view,omitempty"`
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// HTTPKey generates a key for HTTP response caching.
// The URL is kept raw in the key for debuggability.
func (k *DefaultKeyer) HTTPKey(namespace, url string) string {
	return "http:" + namespace + ":" + url
}

// DocumentKey generates a key for parsed tree caching.
func (k *DefaultKeyer) DocumentKey(format, docHash string) string {
	return hashKey("tree", format, docHash)
}

// LayoutKey generates a key for computed layout caching.
func (k *DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts)
}

// ArtifactKey generates a key for rendered artifact caching.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
