package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rnagraph/pkg/bulge"
)

// loopsCommand lists the loops of each graph with their topology.
func (c *CLI) loopsCommand() *cobra.Command {
	opts := inputFlags{}

	cmd := &cobra.Command{
		Use:   "loops [file|-]",
		Short: "List multiloops and open loops with their classification",
		Long: `Loops walks the multiloop segments and overhangs of each graph into loops
and classifies each as open (reaching a chain end), nested or pseudoknot.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gs, err := c.loadGraphs(cmd, args[0], opts)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, g := range gs {
				if err := printLoops(w, g); err != nil {
					return err
				}
			}
			return nil
		},
	}

	opts.register(cmd)
	return cmd
}

// printLoops writes one line per loop: "<graph>\t<class>\t<elements>".
func printLoops(w io.Writer, g *bulge.Graph) error {
	for _, loop := range g.Loops() {
		class, err := g.ClassifyLoop(loop)
		if err != nil {
			return err
		}
		names := make([]string, len(loop))
		for i, e := range loop {
			names[i] = g.NameOf(e)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", g.Name(), class, strings.Join(names, " "))
	}
	return nil
}
