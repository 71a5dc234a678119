package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/conetree/pkg/pipeline"
)

// renderCommand creates the render command for one-shot rendering.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		selected   int
	)
	opts := c.pipelineOptions()

	cmd := &cobra.Command{
		Use:   "render <document>",
		Short: "Render a mind map to SVG, PNG, PDF, or JSON",
		Long: `Render a mind map to SVG, PNG, PDF, or JSON.

The render command runs the full parse, layout, and render pipeline in
one step. Use -t cone (default) for the 3D cone tree projection or
-t outline for a flat 2D tree diagram.

The JSON format dumps the computed frame: world positions for every
node, and apex, base, radius, spin, and selection for every cone.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if selected >= 0 {
				opts.SelectedCone = &selected
			}
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass the document cache")

	// Layout flags
	cmd.Flags().StringVarP(&opts.Axis, "axis", "a", opts.Axis, "layout axis: vertical (default), horizontal")
	cmd.Flags().BoolVar(&opts.Proportional, "proportional", opts.Proportional, "size angular slices by subtree weight")

	// Render flags
	cmd.Flags().StringVarP(&opts.VizType, "type", "t", pipeline.DefaultVizType, "visualization type: cone (default), outline")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
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

// runRender executes the full pipeline and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Document = input

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", opts.VizType))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render %s: %w", input, err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
	}); err != nil {
		return err
	}

	printStats(result.Stats.NodeCount, result.Stats.ConeCount, result.CacheInfo.RenderHit)
	return nil
}

// =============================================================================
// Artifact Output
// =============================================================================

// artifactWriteParams bundles the inputs for writeArtifacts.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string // input file, used to derive default output paths
	output    string // output file or base path, may be empty
}

// writeArtifacts writes each rendered format to its own file. With a
// single format and an explicit output, the file is written as named;
// otherwise paths are derived as <base>.<format>.
func writeArtifacts(p artifactWriteParams) error {
	if len(p.formats) == 1 && p.output != "" {
		return writeArtifact(p.artifacts[p.formats[0]], p.output)
	}

	base := basePath(p.output, p.input)
	for _, format := range p.formats {
		if err := writeArtifact(p.artifacts[format], base+"."+format); err != nil {
			return err
		}
	}
	return nil
}

func writeArtifact(data []byte, path string) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printSuccess("Generated %s", path)
	return nil
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input. If output ends
// in a format extension (.svg, .png, ...), that extension is stripped so
// multiple formats don't stack extensions.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
