package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rnagraph/pkg/errors"
	"github.com/matzehuels/rnagraph/pkg/pipeline"
)

// renderOpts holds the render command flags. Unset flags fall back to the
// [output] section of the config file.
type renderOpts struct {
	inputFlags
	output   string
	formats  string
	detailed bool
	analysis bool
	scale    float64
}

// extensions maps artifact formats to file extensions.
var extensions = map[string]string{
	pipeline.FormatBG:         ".bg",
	pipeline.FormatDotBracket: ".dbn",
	pipeline.FormatBPSeq:      ".bpseq",
	pipeline.FormatElements:   ".elements",
	pipeline.FormatJSON:       ".json",
	pipeline.FormatDOT:        ".dot",
	pipeline.FormatSVG:        ".svg",
	pipeline.FormatPNG:        ".png",
	pipeline.FormatPDF:        ".pdf",
}

// renderCommand renders element graphs to one or more artifact formats.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Render element graphs as diagrams or text artifacts",
		Long: `Render builds the element graphs of the input and writes one file per graph
and format. Diagrams (dot, svg, png, pdf) draw stems as boxes and loops as
ellipses or diamonds; png and pdf need rsvg-convert from librsvg.

Files are named <base>.<ext>, where base is --output or the input file name
without its extension. Inputs with several structures add _<name> to the base.`,
		Example: `  rnagraph render -f svg trna.dbn
  rnagraph render -f dot,svg,png --detailed --analysis -o out/trna trna.dbn`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "base path for output files")
	cmd.Flags().StringVarP(&opts.formats, "formats", "f", "", "comma-separated formats: "+strings.Join(pipeline.ArtifactFormats, ", "))
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label nodes with define and dimensions")
	cmd.Flags().BoolVar(&opts.analysis, "analysis", false, "dash edges outside the minimum spanning forest")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "png zoom factor")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, path string, opts renderOpts) error {
	ctx := cmd.Context()
	cfg := c.Config.Output

	popts, err := opts.options(cmd, path)
	if err != nil {
		return err
	}
	popts.Formats = parseFormats(opts.formats, cfg.Formats)
	popts.Detailed = opts.detailed || cfg.Detailed
	popts.Analysis = opts.analysis || cfg.Analysis
	popts.Scale = opts.scale
	if popts.Scale <= 0 {
		popts.Scale = cfg.Scale
	}
	if err := pipeline.ValidateFormats(popts.Formats); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	w := cmd.ErrOrStderr()
	spinner := newSpinnerWithContext(ctx, w, "Rendering...")
	spinner.Start()
	res, err := runner.Execute(ctx, popts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	base := basePath(opts.output, path, popts.Name)
	var written []string
	for _, out := range res.Outputs {
		b := base
		if len(res.Outputs) > 1 {
			b += "_" + out.Graph.Name()
		}
		for _, format := range popts.Formats {
			p := b + extensions[format]
			if err := writeFile(p, out.Artifacts[format]); err != nil {
				return err
			}
			written = append(written, p)
		}
	}

	printSuccess(w, "Rendered %s", plural(len(written), "file"))
	printStats(w, res.Stats.Graphs, res.Stats.Elements, res.CacheInfo.BuildHit && res.CacheInfo.RenderHit)
	for _, p := range written {
		printFile(w, p)
	}
	return nil
}

// basePath derives the output base from --output, stripping a known
// artifact extension, or else from the input file name. Stdin falls back
// to the graph name.
func basePath(output, input, name string) string {
	if output != "" {
		ext := filepath.Ext(output)
		for _, e := range extensions {
			if ext == e {
				return strings.TrimSuffix(output, ext)
			}
		}
		return output
	}
	if input == "-" {
		if name == "" {
			return appName
		}
		return name
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return nil
}
