package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/conetree/pkg/cache"
	treeio "github.com/matzehuels/conetree/pkg/io"
	"github.com/matzehuels/conetree/pkg/mindmap"
)

const sampleFreeMind = `<map version="1.0.1">
  <node TEXT="root">
    <node TEXT="a"/>
    <node TEXT="b">
      <node TEXT="b1"/>
    </node>
  </node>
</map>`

const sampleOutline = `text = "root"

[[children]]
text = "a"

[[children]]
text = "b"

[[children.children]]
text = "b1"
`

func inlineOpts() Options {
	return Options{
		Content:  sampleFreeMind,
		Filename: "notes.mm",
	}
}

func inlineOptsWithFormats() Options {
	opts := inlineOpts()
	opts.Formats = []string{FormatSVG, FormatJSON}
	return opts
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := inlineOpts()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Axis != "vertical" {
		t.Errorf("Axis = %q, want vertical", opts.Axis)
	}
	if opts.VizType != VizTypeCone {
		t.Errorf("VizType = %q, want cone", opts.VizType)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Style != "solid" {
		t.Errorf("Style = %q, want solid", opts.Style)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("size = %dx%d, want %dx%d", opts.Width, opts.Height, DefaultWidth, DefaultHeight)
	}
}

func TestValidateErrors(t *testing.T) {
	cases := []struct {
		name string
		opts Options
	}{
		{"no document", Options{}},
		{"content without filename", Options{Content: sampleFreeMind}},
		{"bad axis", Options{Content: sampleFreeMind, Filename: "a.mm", Axis: "diagonal"}},
		{"bad format", Options{Content: sampleFreeMind, Filename: "a.mm", Formats: []string{"gif"}}},
		{"bad style", Options{Content: sampleFreeMind, Filename: "a.mm", Style: "neon"}},
		{"bad viz type", Options{Content: sampleFreeMind, Filename: "a.mm", VizType: "hologram"}},
		{"negative height", Options{Content: sampleFreeMind, Filename: "a.mm", LevelHeight: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := tc.opts
			if err := opts.ValidateAndSetDefaults(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestParseInlineFreeMind(t *testing.T) {
	tree, err := Parse(context.Background(), inlineOpts())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tree.Text != "root" {
		t.Fatalf("root text = %q", tree.Text)
	}
	// FreeMind children are prepended, so stored order reverses the
	// document order.
	if len(tree.Children) != 2 || tree.Children[0].Text != "b" || tree.Children[1].Text != "a" {
		t.Fatalf("unexpected children: %+v", tree.Children)
	}
	if tree.Size != 4 {
		t.Fatalf("root size = %d, want 4", tree.Size)
	}
}

func TestParseLocalOutline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.toml")
	if err := os.WriteFile(path, []byte(sampleOutline), 0o644); err != nil {
		t.Fatal(err)
	}

	tree, err := Parse(context.Background(), Options{Document: path})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if mindmap.NodeCount(tree) != 4 {
		t.Fatalf("node count = %d, want 4", mindmap.NodeCount(tree))
	}
}

func TestParseUnsupportedFormat(t *testing.T) {
	_, err := Parse(context.Background(), Options{Content: "x", Filename: "notes.txt"})
	if err == nil {
		t.Fatal("expected error for unknown extension")
	}
}

func TestDocumentFormat(t *testing.T) {
	cases := map[string]string{
		"notes.mm":                       FormatFreeMind,
		"notes.XML":                      FormatFreeMind,
		"map.toml":                       FormatOutline,
		"tree.json":                      FormatTree,
		"https://example.com/a/b.mm":     FormatFreeMind,
		"https://example.com/b.toml?v=1": FormatOutline,
		"README":                         "",
	}
	for doc, want := range cases {
		opts := Options{Document: doc}
		if got := opts.DocumentFormat(); got != want {
			t.Errorf("DocumentFormat(%q) = %q, want %q", doc, got, want)
		}
	}
}

func TestGenerateLayout(t *testing.T) {
	tree, err := Parse(context.Background(), inlineOpts())
	if err != nil {
		t.Fatal(err)
	}

	l, err := GenerateLayout(tree, Options{Axis: "vertical"})
	if err != nil {
		t.Fatalf("GenerateLayout: %v", err)
	}
	if l.Axis != "vertical" {
		t.Errorf("axis = %q", l.Axis)
	}
	if len(l.Nodes) != 4 {
		t.Errorf("nodes = %d, want 4", len(l.Nodes))
	}
	// root and "b" are internal
	if len(l.Cones) != 2 {
		t.Errorf("cones = %d, want 2", len(l.Cones))
	}
	for _, c := range l.Cones {
		if c.SpinDeg != 0 {
			t.Errorf("cone %d has rest spin %f", c.Index, c.SpinDeg)
		}
	}
}

func TestGenerateLayoutNilTree(t *testing.T) {
	if _, err := GenerateLayout(nil, Options{}); err == nil {
		t.Fatal("expected error for nil tree")
	}
}

func TestRenderSVGAndJSON(t *testing.T) {
	tree, err := Parse(context.Background(), inlineOpts())
	if err != nil {
		t.Fatal(err)
	}
	l, err := GenerateLayout(tree, Options{})
	if err != nil {
		t.Fatal(err)
	}

	artifacts, err := Render(l, Options{
		Content: sampleFreeMind, Filename: "notes.mm",
		Formats: []string{FormatSVG, FormatJSON},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	svg := string(artifacts[FormatSVG])
	if !strings.HasPrefix(svg, "<svg") {
		t.Fatalf("svg artifact does not start with <svg: %.60s", svg)
	}
	if !strings.Contains(svg, ">root</text>") {
		t.Error("svg missing root label")
	}

	parsed, err := treeio.UnmarshalLayout(artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if len(parsed.Nodes) != len(l.Nodes) {
		t.Errorf("json artifact nodes = %d, want %d", len(parsed.Nodes), len(l.Nodes))
	}
}

func TestRenderSelectedConeClamped(t *testing.T) {
	tree, err := Parse(context.Background(), inlineOpts())
	if err != nil {
		t.Fatal(err)
	}
	l, err := GenerateLayout(tree, Options{})
	if err != nil {
		t.Fatal(err)
	}

	sel := 99 // out of range, falls back to all selected
	artifacts, err := Render(l, Options{
		Content: sampleFreeMind, Filename: "notes.mm",
		Formats: []string{FormatJSON}, SelectedCone: &sel,
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	parsed, err := treeio.UnmarshalLayout(artifacts[FormatJSON])
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range parsed.Cones {
		if !c.Selected {
			t.Fatalf("cone %d not selected after clamp to all", c.Index)
		}
	}
}

func TestRenderSpinAppliesToCones(t *testing.T) {
	tree, err := Parse(context.Background(), inlineOpts())
	if err != nil {
		t.Fatal(err)
	}
	l, err := GenerateLayout(tree, Options{})
	if err != nil {
		t.Fatal(err)
	}

	artifacts, err := Render(l, Options{
		Content: sampleFreeMind, Filename: "notes.mm",
		Formats: []string{FormatJSON}, SpinDeg: 45,
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	parsed, err := treeio.UnmarshalLayout(artifacts[FormatJSON])
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range parsed.Cones {
		if c.SpinDeg != 45 {
			t.Fatalf("cone %d spin = %f, want 45", c.Index, c.SpinDeg)
		}
	}
}

func TestRunnerExecuteAndCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), inlineOptsWithFormats())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Stats.NodeCount != 4 || result.Stats.ConeCount != 2 {
		t.Errorf("stats = %d nodes, %d cones", result.Stats.NodeCount, result.Stats.ConeCount)
	}
	if result.TreeHash == "" {
		t.Error("missing tree hash")
	}
	if len(result.Artifacts) != 2 {
		t.Errorf("artifacts = %d, want 2", len(result.Artifacts))
	}
	if result.CacheInfo.ParseHit || result.CacheInfo.LayoutHit || result.CacheInfo.RenderHit {
		t.Errorf("first run should miss everywhere: %+v", result.CacheInfo)
	}

	again, err := runner.Execute(context.Background(), inlineOptsWithFormats())
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !again.CacheInfo.ParseHit || !again.CacheInfo.LayoutHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run should hit everywhere: %+v", again.CacheInfo)
	}
	if string(again.Artifacts[FormatSVG]) != string(result.Artifacts[FormatSVG]) {
		t.Error("cached svg differs from rendered svg")
	}
}

func TestRunnerRefreshSkipsParseCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	ctx := context.Background()
	if _, err := runner.Execute(ctx, inlineOptsWithFormats()); err != nil {
		t.Fatal(err)
	}

	opts := inlineOptsWithFormats()
	opts.Refresh = true
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if result.CacheInfo.ParseHit {
		t.Error("refresh run should not hit the parse cache")
	}
}

func TestRunnerNilCacheUsesNull(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), inlineOptsWithFormats())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.CacheInfo.ParseHit || result.CacheInfo.LayoutHit {
		t.Error("null cache should never hit")
	}
}
