package outline

import (
	"strings"
	"testing"

	"github.com/matzehuels/conetree/pkg/mindmap"
)

func buildSample() *mindmap.Node {
	root := &mindmap.Node{Text: "root"}
	a := root.AddChild("a")
	a.AddChild("a1")
	root.AddChild("b")
	mindmap.ComputeSize(root)
	return root
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(buildSample(), Options{})

	for _, want := range []string{
		"digraph G {",
		"rankdir=TB;",
		`label="root"`,
		`label="a1"`,
		`"n0" -> "n1";`,
		"fillcolor=lightblue",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTHorizontal(t *testing.T) {
	dot := ToDOT(buildSample(), Options{Horizontal: true})
	if !strings.Contains(dot, "rankdir=LR;") {
		t.Fatalf("horizontal DOT missing rankdir=LR:\n%s", dot)
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(buildSample(), Options{Detailed: true})
	if !strings.Contains(dot, `size: 4`) {
		t.Errorf("detailed DOT missing root size:\n%s", dot)
	}
	if !strings.Contains(dot, `cone: 0`) {
		t.Errorf("detailed DOT missing cone index:\n%s", dot)
	}
}

func TestToDOTDuplicateLabels(t *testing.T) {
	root := &mindmap.Node{Text: "x"}
	root.AddChild("x")
	root.AddChild("x")
	mindmap.ComputeSize(root)

	dot := ToDOT(root, Options{})
	if strings.Count(dot, `label="x"`) != 3 {
		t.Fatalf("expected three distinct nodes sharing a label:\n%s", dot)
	}
}

func TestToDOTNil(t *testing.T) {
	dot := ToDOT(nil, Options{})
	if !strings.Contains(dot, "digraph G {") || !strings.Contains(dot, "}") {
		t.Fatalf("nil tree should still produce an empty digraph:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="8pt" height="6pt" viewBox="0.00 0.00 120.25 80.25">rest</svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 120.25 80.25" width="120" height="80"`) {
		t.Fatalf("viewBox not normalized: %s", out)
	}
}
