package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	treeio "github.com/matzehuels/conetree/pkg/io"
	"github.com/matzehuels/conetree/pkg/pipeline"
)

// visualizeCommand creates the visualize command for rendering from a layout.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		selected   int
	)
	opts := c.pipelineOptions()

	cmd := &cobra.Command{
		Use:   "visualize <layout.json>",
		Short: "Render a visualization from a computed layout",
		Long: `Render a visualization from a computed layout.

The visualize command takes a layout.json file (produced by 'layout' or
'render -f json') and renders it to SVG, PNG, or PDF. The layout holds
all positioning information, so this step is purely about rendering.

Results are cached locally for faster subsequent runs.

Use 'render' as a shortcut to go directly from a document to visual output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := pipeline.ValidateStyle(opts.Style); err != nil {
				return err
			}
			if selected >= 0 {
				opts.SelectedCone = &selected
			}
			return c.runVisualize(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Render flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().StringVarP(&opts.VizType, "type", "t", pipeline.DefaultVizType, "visualization type: cone (default), outline")
	cmd.Flags().StringVar(&opts.Style, "style", opts.Style, "visual style: solid (default), wireframe")
	cmd.Flags().IntVar(&opts.Width, "width", opts.Width, "frame width")
	cmd.Flags().IntVar(&opts.Height, "height", opts.Height, "frame height")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show subtree sizes and cone indices (outline)")
	cmd.Flags().IntVar(&selected, "select", -1, "highlight a single cone by index (-1 selects all)")
	cmd.Flags().Float64Var(&opts.SpinDeg, "spin", 0, "spin angle in degrees applied to selected cones")
	cmd.Flags().Float64Var(&opts.YawDeg, "yaw", 0, "camera yaw in degrees")
	cmd.Flags().Float64Var(&opts.PitchDeg, "pitch", 0, "camera pitch in degrees")
	cmd.Flags().Float64Var(&opts.Zoom, "zoom", 0, "camera distance (default 20)")

	return cmd
}

// runVisualize loads the layout and renders it.
func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	l, err := treeio.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	// The layout snapshot carries its own axis; keep the two consistent.
	opts.Axis = l.Axis

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", opts.VizType))
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	if err := writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
	}); err != nil {
		return err
	}

	printStats(len(l.Nodes), len(l.Cones), cacheHit)
	return nil
}
