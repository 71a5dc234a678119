// Package pipeline provides the core visualization pipeline for Conetree.
//
// This package implements the complete parse → layout → render pipeline that
// can be used by CLI, API, and viewer components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Load a mind map document from a file, URL, or inline content
//  2. Layout: Compute 3D cone positions for the tree
//  3. Render: Generate output in various formats (SVG, PNG, PDF, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Document: "notes.mm",
//	    Axis:     "vertical",
//	    Formats:  []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Parse only
//	tree, err := runner.Parse(ctx, parseOpts)
//
//	// Layout with existing tree
//	l, err := runner.GenerateLayout(ctx, tree, layoutOpts)
//
//	// Render with existing layout
//	artifacts, err := runner.Render(ctx, l, renderOpts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/conetree/pkg/cache"
	"github.com/matzehuels/conetree/pkg/httputil"
	treeio "github.com/matzehuels/conetree/pkg/io"
	"github.com/matzehuels/conetree/pkg/layout"
	"github.com/matzehuels/conetree/pkg/mindmap"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Viewer
// =============================================================================

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = 800

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = 600

	// DefaultAxis is the default layout axis.
	DefaultAxis = "vertical"

	// DefaultStyle is the default visual style.
	DefaultStyle = "solid"
)

// DefaultVizType is the default visualization type.
const DefaultVizType = VizTypeCone

// Visualization types.
const (
	VizTypeCone    = "cone"    // 3D cone tree projected through the camera
	VizTypeOutline = "outline" // flat 2D tree diagram via Graphviz
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ValidStyles is the set of supported visual styles.
var ValidStyles = map[string]bool{
	"solid":     true,
	"wireframe": true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	VizTypeCone:    true,
	VizTypeOutline: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the visualization pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Parse options
	Document string `json:"document,omitempty"` // local path or http(s) URL
	Content  string `json:"content,omitempty"`  // inline document body (API requests)
	Filename string `json:"filename,omitempty"` // format hint for Content (e.g. notes.mm)
	Refresh  bool   `json:"refresh,omitempty"`

	// Layout options
	Axis         string  `json:"axis,omitempty"`
	Proportional bool    `json:"proportional,omitempty"`
	LevelHeight  float64 `json:"level_height,omitempty"`
	RadiusFactor float64 `json:"radius_factor,omitempty"`
	BottomMargin float64 `json:"bottom_margin,omitempty"`

	// Render options
	VizType      string   `json:"viz_type,omitempty"`
	Formats      []string `json:"formats,omitempty"`
	Style        string   `json:"style,omitempty"`
	Width        int      `json:"width,omitempty"`
	Height       int      `json:"height,omitempty"`
	Detailed     bool     `json:"detailed,omitempty"`      // outline: size and cone index in labels
	SelectedCone *int     `json:"selected_cone,omitempty"` // cone: highlight one cone
	SpinDeg      float64  `json:"spin_deg,omitempty"`      // cone: spin applied to selected cones
	YawDeg       float64  `json:"yaw_deg,omitempty"`       // cone: camera yaw
	PitchDeg     float64  `json:"pitch_deg,omitempty"`     // cone: camera pitch
	Zoom         float64  `json:"zoom,omitempty"`          // cone: camera zoom

	// Runtime options (not serialized)
	Logger  *log.Logger      `json:"-"`
	Fetcher *httputil.Client `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tree is the parsed mind map.
	Tree *mindmap.Node

	// TreeHash is the content hash of the parsed tree.
	TreeHash string

	// Layout contains the positioned tree and cone placements.
	Layout treeio.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	ConeCount  int
	ParseTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ParseHit  bool // Whether the parsed tree came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !ValidStyles[style] {
		return fmt.Errorf("invalid style: %q (must be one of: solid, wireframe)", style)
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return fmt.Errorf("invalid viz_type: %q (must be one of: cone, outline)", vizType)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks required fields for parsing.
func (o *Options) ValidateForParse() error {
	if o.Document == "" && o.Content == "" {
		return fmt.Errorf("document or content is required")
	}
	if o.Content != "" && o.Filename == "" {
		return fmt.Errorf("filename is required with inline content")
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Axis == "" {
		o.Axis = DefaultAxis
	}
	if o.LevelHeight == 0 {
		o.LevelHeight = layout.DefaultLevelHeight
	}
	if o.RadiusFactor == 0 {
		o.RadiusFactor = layout.DefaultBaseRadiusFactor
	}
	if o.BottomMargin == 0 {
		o.BottomMargin = layout.DefaultBottomMargin
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if _, err := layout.ParseAxis(o.Axis); err != nil {
		return err
	}
	if o.LevelHeight < 0 || o.RadiusFactor < 0 || o.BottomMargin < 0 {
		return fmt.Errorf("layout dimensions must not be negative")
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateStyle(o.Style)
}

// IsCone returns true if this is a cone tree visualization.
func (o *Options) IsCone() bool {
	return o.VizType == "" || o.VizType == VizTypeCone
}

// IsOutline returns true if this is an outline visualization.
func (o *Options) IsOutline() bool {
	return o.VizType == VizTypeOutline
}

// LayoutParams converts layout options into layout engine parameters.
// Call ValidateForLayout first; invalid axis names fall back to vertical.
func (o *Options) LayoutParams() layout.Params {
	axis, _ := layout.ParseAxis(o.Axis)
	return layout.Params{
		Axis:             axis,
		Proportional:     o.Proportional,
		LevelHeight:      o.LevelHeight,
		BaseRadiusFactor: o.RadiusFactor,
		BottomMargin:     o.BottomMargin,
	}
}

// DocumentFormat returns the parser format implied by the document name:
// "freemind", "outline", "tree", or "" when unknown.
func (o *Options) DocumentFormat() string {
	name := o.Document
	if o.Content != "" {
		name = o.Filename
	}
	return formatForName(name)
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Axis:         o.Axis,
		LevelHeight:  o.LevelHeight,
		RadiusFactor: o.RadiusFactor,
		BottomMargin: o.BottomMargin,
		Proportional: o.Proportional,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	style := o.Style
	if o.IsOutline() {
		// Outline diagrams ignore the cone style; fold the viz type and
		// label detail into the style field instead.
		style = VizTypeOutline
		if o.Detailed {
			style += "-detailed"
		}
	}
	return cache.ArtifactKeyOpts{
		Format: format,
		Style:  style,
		Width:  o.Width,
		Height: o.Height,
		View:   o.viewDigest(),
	}
}

// viewDigest folds camera and selection overrides into a short string so
// different views of the same layout get distinct artifact cache keys.
func (o *Options) viewDigest() string {
	if o.SelectedCone == nil && o.SpinDeg == 0 && o.YawDeg == 0 && o.PitchDeg == 0 && o.Zoom == 0 {
		return ""
	}
	sel := "all"
	if o.SelectedCone != nil {
		sel = fmt.Sprintf("%d", *o.SelectedCone)
	}
	return fmt.Sprintf("sel=%s,spin=%.2f,yaw=%.2f,pitch=%.2f,zoom=%.2f",
		sel, o.SpinDeg, o.YawDeg, o.PitchDeg, o.Zoom)
}
