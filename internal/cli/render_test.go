package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"no output strips input extension", "", "map.mm", "map"},
		{"no output keeps input directory", "", "docs/map.toml", "docs/map"},
		{"output with format extension", "out.svg", "map.mm", "out"},
		{"output with png extension", "out.png", "map.mm", "out"},
		{"output without extension", "out", "map.mm", "out"},
		{"output with unknown extension", "out.backup", "map.mm", "out.backup"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := basePath(tt.output, tt.input)
			if got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestWriteArtifactsSingleFormat(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "tree.svg")

	err := writeArtifacts(artifactWriteParams{
		artifacts: map[string][]byte{"svg": []byte("<svg/>")},
		formats:   []string{"svg"},
		input:     "map.mm",
		output:    out,
	})
	if err != nil {
		t.Fatalf("writeArtifacts error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "<svg/>" {
		t.Errorf("output = %q, want %q", data, "<svg/>")
	}
}

func TestWriteArtifactsMultipleFormats(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "map.mm")

	err := writeArtifacts(artifactWriteParams{
		artifacts: map[string][]byte{
			"svg":  []byte("<svg/>"),
			"json": []byte("{}"),
		},
		formats: []string{"svg", "json"},
		input:   input,
	})
	if err != nil {
		t.Fatalf("writeArtifacts error: %v", err)
	}

	for ext, want := range map[string]string{"svg": "<svg/>", "json": "{}"} {
		path := filepath.Join(dir, "map."+ext)
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		if string(data) != want {
			t.Errorf("%s = %q, want %q", path, data, want)
		}
	}
}

func TestWriteArtifactsStripsStackedExtension(t *testing.T) {
	dir := t.TempDir()

	err := writeArtifacts(artifactWriteParams{
		artifacts: map[string][]byte{
			"svg": []byte("<svg/>"),
			"png": []byte("png-bytes"),
		},
		formats: []string{"svg", "png"},
		input:   "map.mm",
		output:  filepath.Join(dir, "out.svg"),
	})
	if err != nil {
		t.Fatalf("writeArtifacts error: %v", err)
	}

	// out.svg and out.png, not out.svg.svg / out.svg.png.
	for _, name := range []string{"out.svg", "out.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
}
