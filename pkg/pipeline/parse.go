package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/matzehuels/conetree/pkg/httputil"
	treeio "github.com/matzehuels/conetree/pkg/io"
	"github.com/matzehuels/conetree/pkg/mindmap"
)

// Document formats the parser understands.
const (
	FormatFreeMind = "freemind" // FreeMind XML (.mm, .xml)
	FormatOutline  = "outline"  // TOML outline (.toml)
	FormatTree     = "tree"     // positioned or plain JSON tree (.json)
)

// formatForName maps a file or URL name to a document format. Unknown
// extensions return "".
func formatForName(name string) string {
	if httputil.IsRemote(name) {
		if u, err := url.Parse(name); err == nil {
			name = u.Path
		}
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mm", ".xml":
		return FormatFreeMind
	case ".toml":
		return FormatOutline
	case ".json":
		return FormatTree
	default:
		return ""
	}
}

// Parse loads the mind map named by opts: a local file, a remote URL, or
// inline content. Subtree sizes are computed before the tree is returned,
// so it is ready for layout.
func Parse(ctx context.Context, opts Options) (*mindmap.Node, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, err
	}

	var tree *mindmap.Node
	var err error

	switch {
	case opts.Content != "":
		tree, err = parseBytes([]byte(opts.Content), formatForName(opts.Filename), opts.Filename)
	case httputil.IsRemote(opts.Document):
		tree, err = parseRemote(ctx, opts)
	default:
		tree, err = parseLocal(opts.Document)
	}
	if err != nil {
		return nil, err
	}

	mindmap.ComputeSize(tree)
	return tree, nil
}

func parseLocal(path string) (*mindmap.Node, error) {
	if formatForName(path) == FormatTree {
		return treeio.ImportTree(path)
	}
	return mindmap.Load(path)
}

func parseRemote(ctx context.Context, opts Options) (*mindmap.Node, error) {
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = httputil.NewClient(nil)
	}
	body, err := fetcher.FetchDocument(ctx, opts.Document, opts.Refresh)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", opts.Document, err)
	}
	return parseBytes(body, formatForName(opts.Document), opts.Document)
}

func parseBytes(data []byte, format, name string) (*mindmap.Node, error) {
	switch format {
	case FormatFreeMind:
		return mindmap.ParseFreeMind(bytes.NewReader(data))
	case FormatOutline:
		return mindmap.ParseOutline(data)
	case FormatTree:
		return treeio.ReadTree(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %s", mindmap.ErrUnsupportedFormat, name)
	}
}
