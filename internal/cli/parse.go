package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	treeio "github.com/matzehuels/conetree/pkg/io"
	"github.com/matzehuels/conetree/pkg/mindmap"
)

// parseCommand creates the parse command for loading mind map documents.
func (c *CLI) parseCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "parse <document>",
		Short: "Parse a mind map document into the JSON tree format",
		Long: `Parse a mind map document into the JSON tree format.

The document can be a FreeMind file (.mm/.xml), a TOML outline (.toml),
a previously exported tree (.json), or an http(s) URL to any of these.
The parsed tree is written as JSON to stdout or the --output file, ready
for 'conetree layout' and 'conetree render'.

Remote documents are fetched with retry and cached locally.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runParse(cmd.Context(), args[0], output, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the document cache")

	return cmd
}

// runParse loads the document and writes the tree JSON.
func (c *CLI) runParse(ctx context.Context, document, output string, noCache, refresh bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.pipelineOptions()
	opts.Document = document
	opts.Refresh = refresh

	prog := newProgress(c.Logger)
	tree, cacheHit, err := runner.ParseWithCacheInfo(ctx, opts)
	if err != nil {
		return fmt.Errorf("parse %s: %w", document, err)
	}
	prog.done(fmt.Sprintf("Parsed %d nodes with %d cones",
		mindmap.NodeCount(tree), mindmap.CountCones(tree)))

	if err := writeTree(tree, output); err != nil {
		return err
	}

	if output != "" {
		printSuccess("Parse complete")
		printFile(output)
		printStats(mindmap.NodeCount(tree), mindmap.CountCones(tree), cacheHit)
		printNewline()
		printNextStep("Layout", "conetree layout "+output)
	}
	return nil
}

// writeTree serializes the tree as JSON to path (or stdout if empty).
func writeTree(tree *mindmap.Node, path string) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return treeio.WriteTree(tree, out)
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
