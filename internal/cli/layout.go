package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	treeio "github.com/matzehuels/conetree/pkg/io"
	"github.com/matzehuels/conetree/pkg/mindmap"
	"github.com/matzehuels/conetree/pkg/pipeline"
)

// layoutCommand creates the layout command for computing cone layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
	)
	opts := c.pipelineOptions()

	cmd := &cobra.Command{
		Use:   "layout <document>",
		Short: "Compute the 3D cone layout for a mind map",
		Long: `Compute the 3D cone layout for a mind map.

The layout command parses the document (any format 'parse' accepts) and
computes rest positions for every node and cone. The output is a
layout.json file (same format as 'render -f json') that can be rendered
with the 'visualize' command.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Refresh = refresh
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the document cache")

	// Layout flags
	cmd.Flags().StringVarP(&opts.Axis, "axis", "a", opts.Axis, "layout axis: vertical (default), horizontal")
	cmd.Flags().BoolVar(&opts.Proportional, "proportional", opts.Proportional, "size angular slices by subtree weight")
	cmd.Flags().Float64Var(&opts.LevelHeight, "level-height", opts.LevelHeight, "distance between tree levels")
	cmd.Flags().Float64Var(&opts.RadiusFactor, "radius-factor", opts.RadiusFactor, "cone radius per unit of subtree weight")
	cmd.Flags().Float64Var(&opts.BottomMargin, "bottom-margin", opts.BottomMargin, "gap below the deepest node (vertical)")

	return cmd
}

// runLayout parses the document, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Document = input
	tree, err := runner.Parse(ctx, opts)
	if err != nil {
		return fmt.Errorf("parse %s: %w", input, err)
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", opts.Axis))
	spinner.Start()

	l, cacheHit, err := runner.GenerateLayoutWithCacheInfo(ctx, tree, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	if err := treeio.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(mindmap.NodeCount(tree), len(l.Cones), cacheHit)
	printNewline()
	printNextStep("Render", "conetree visualize "+outputPath)

	return nil
}
