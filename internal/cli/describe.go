package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rnagraph/pkg/bulge"
)

type describeOpts struct {
	inputFlags
	noTable bool
}

// describeCommand prints a summary and the element table of each graph.
func (c *CLI) describeCommand() *cobra.Command {
	opts := describeOpts{}

	cmd := &cobra.Command{
		Use:   "describe [file|-]",
		Short: "Summarize element graphs",
		Example: `  rnagraph describe trna.dbn
  rnagraph describe --no-table 1gid.bpseq`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gs, err := c.loadGraphs(cmd, args[0], opts.inputFlags)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for i, g := range gs {
				if i > 0 {
					fmt.Fprintln(w)
				}
				describe(w, g, !opts.noTable)
			}
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&opts.noTable, "no-table", false, "omit the element table")

	return cmd
}

func describe(w io.Writer, g *bulge.Graph, withTable bool) {
	name := g.Name()
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintln(w, StyleTitle.Render(name))
	printKeyValue(w, "length", fmt.Sprint(g.Len()))
	if seq := g.Sequence().String(); seq != "" {
		printKeyValue(w, "sequence", seq)
	}
	printKeyValue(w, "structure", g.DotBracket())
	fmt.Fprintln(w, styleKey.Render("elements")+" "+colorElementString(g))
	printKeyValue(w, "counts", kindCounts(g))
	printKeyValue(w, "pseudoknot", fmt.Sprint(g.IsPseudoknotted()))
	for _, info := range g.Infos() {
		printKeyValue(w, info.Key, info.Value)
	}

	if withTable {
		fmt.Fprintln(w)
		fmt.Fprintln(w, elementTable(g, g.Elements(), -1))
	}
}

// kindCounts formats the number of elements of each kind, skipping kinds
// that do not occur.
func kindCounts(g *bulge.Graph) string {
	var parts []string
	for _, k := range bulge.Kinds {
		if n := len(g.ElementsOf(k)); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, k))
		}
	}
	return strings.Join(parts, ", ")
}
