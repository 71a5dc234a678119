package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/conetree/pkg/cache"
	treeio "github.com/matzehuels/conetree/pkg/io"
	"github.com/matzehuels/conetree/pkg/mindmap"
	"github.com/matzehuels/conetree/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Parse
	parseStart := time.Now()
	observability.Pipeline().OnParseStart(ctx, opts.DocumentFormat(), opts.Document)
	tree, parseHit, err := r.ParseWithCacheInfo(ctx, opts)
	observability.Pipeline().OnParseComplete(ctx, opts.DocumentFormat(), opts.Document,
		mindmap.NodeCount(tree), time.Since(parseStart), err)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Tree = tree
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.NodeCount = mindmap.NodeCount(tree)
	result.Stats.ConeCount = mindmap.CountCones(tree)
	result.CacheInfo.ParseHit = parseHit

	// Compute tree hash for cache keys and API responses
	if treeData, err := marshalTree(tree); err == nil {
		result.TreeHash = cache.Hash(treeData)
	}

	r.Logger.Info("parsed document",
		"nodes", result.Stats.NodeCount,
		"cones", result.Stats.ConeCount,
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, opts.Axis, result.Stats.NodeCount)
	l, layoutHit, err := r.GenerateLayoutWithCacheInfo(ctx, tree, opts)
	observability.Pipeline().OnLayoutComplete(ctx, opts.Axis, time.Since(layoutStart), err)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"axis", l.Axis,
		"cones", len(l.Cones),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ParseWithCacheInfo loads the document with caching and returns cache hit info.
func (r *Runner) ParseWithCacheInfo(ctx context.Context, opts Options) (*mindmap.Node, bool, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// The cache key identifies the document: content hash for inline
	// bodies, source name hash otherwise.
	docID := opts.Document
	if opts.Content != "" {
		docID = cache.Hash([]byte(opts.Content))
	}
	cacheKey := r.Keyer.DocumentKey(opts.DocumentFormat(), cache.Hash([]byte(docID)))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			tree, err := treeio.ReadTree(bytes.NewReader(data))
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "tree")
				mindmap.ComputeSize(tree)
				return tree, true, nil // Cache hit
			}
		}
		observability.Cache().OnCacheMiss(ctx, "tree")
	}

	// Parse
	tree, err := Parse(ctx, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := marshalTree(tree); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLDocument)
		observability.Cache().OnCacheSet(ctx, "tree", len(data))
	}

	return tree, false, nil // Cache miss
}

// Parse is a convenience wrapper that calls ParseWithCacheInfo and discards the cache hit info.
func (r *Runner) Parse(ctx context.Context, opts Options) (*mindmap.Node, error) {
	tree, _, err := r.ParseWithCacheInfo(ctx, opts)
	return tree, err
}

// GenerateLayoutWithCacheInfo computes a layout with caching and returns cache hit info.
func (r *Runner) GenerateLayoutWithCacheInfo(ctx context.Context, tree *mindmap.Node, opts Options) (treeio.Layout, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return treeio.Layout{}, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key
	treeData, err := marshalTree(tree)
	if err != nil {
		return treeio.Layout{}, false, err
	}
	treeHash := cache.Hash(treeData)
	cacheKey := r.Keyer.LayoutKey(treeHash, opts.LayoutKeyOpts())

	// Try cache first
	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		cached, err := treeio.UnmarshalLayout(data)
		if err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return cached, true, nil // Cache hit
		}
		// If deserialization fails, fall through to recompute
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	// Generate layout
	l, err := GenerateLayout(tree, opts)
	if err != nil {
		return treeio.Layout{}, false, err
	}

	// Cache the result
	if data, err := treeio.MarshalLayout(l); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}

	return l, false, nil // Cache miss
}

// GenerateLayout is a convenience wrapper that calls GenerateLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) GenerateLayout(ctx context.Context, tree *mindmap.Node, opts Options) (treeio.Layout, error) {
	l, _, err := r.GenerateLayoutWithCacheInfo(ctx, tree, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l treeio.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from layout data
	layoutData, err := treeio.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		} else {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil // All artifacts from cache
	}

	// Render all formats
	rendered, err := Render(l, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l treeio.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// marshalTree serializes a tree to the JSON tree-document format used
// for parse-stage caching.
func marshalTree(root *mindmap.Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := treeio.WriteTree(root, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
