package cli

import (
	"bytes"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rnagraph/pkg/bulge"
	"github.com/matzehuels/rnagraph/pkg/errors"
	rnaio "github.com/matzehuels/rnagraph/pkg/io"
	"github.com/matzehuels/rnagraph/pkg/pairs"
)

type buildOpts struct {
	inputFlags
	to                string
	output            string
	dissolve          bool
	removePseudoknots bool
}

// buildCommand converts structures into element graphs in another format.
func (c *CLI) buildCommand() *cobra.Command {
	opts := buildOpts{}

	cmd := &cobra.Command{
		Use:   "build [file|-]",
		Short: "Build element graphs and write them as bg, fasta, bpseq or json",
		Long: `Build reads secondary structures and writes their element graphs.

The input format is detected from the file extension (.dbn, .fa, .bpseq, .bg,
.json) unless --format is given. Use "-" to read from stdin.`,
		Example: `  rnagraph build trna.dbn
  rnagraph build --to json -o trna.json trna.dbn
  echo "((..))&((..))" | rnagraph build --split -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd, args[0], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.to, "to", "t", string(rnaio.FormatBG), "output format: bg, fasta, bpseq or json")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.dissolve, "dissolve-stems", false, "remove stems of a single base pair")
	cmd.Flags().BoolVar(&opts.removePseudoknots, "remove-pseudoknots", false, "remove crossing helices before building")

	return cmd
}

func (c *CLI) runBuild(cmd *cobra.Command, path string, opts buildOpts) error {
	to, err := rnaio.ParseFormat(opts.to)
	if err != nil {
		return err
	}
	gs, err := c.loadGraphs(cmd, path, opts.inputFlags)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	for _, g := range gs {
		out, err := c.transform(cmd, g, opts)
		if err != nil {
			return err
		}
		if err := rnaio.Write(&buf, out, to); err != nil {
			return errors.Wrap(errors.GetCode(err), err, "write %s", g.Name())
		}
	}

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(opts.output, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", opts.output)
	}
	w := cmd.ErrOrStderr()
	printSuccess(w, "Wrote %s", plural(len(gs), "graph"))
	printFile(w, opts.output)
	printNextStep(w, "Draw it", appName+" render -f svg "+opts.output)
	return nil
}

// transform applies the optional pair removals in a fixed order:
// pseudoknots first, then length-one stems.
func (c *CLI) transform(cmd *cobra.Command, g *bulge.Graph, opts buildOpts) (*bulge.Graph, error) {
	if opts.removePseudoknots {
		out, removed, err := g.RemovePseudoknots(pairs.GreedyNester{})
		if err != nil {
			return nil, err
		}
		if len(removed) > 0 {
			printWarning(cmd.ErrOrStderr(), "%s: removed %s", g.Name(), plural(len(removed), "pseudoknotted pair"))
		}
		g = out
	}
	if opts.dissolve {
		out, err := g.DissolveLengthOneStems()
		if err != nil {
			return nil, err
		}
		g = out
	}
	return g, nil
}
