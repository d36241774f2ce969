package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rnagraph/pkg/bulge"
	"github.com/matzehuels/rnagraph/pkg/errors"
)

var (
	listDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	detailBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)

// exploreCommand opens an interactive element browser.
func (c *CLI) exploreCommand() *cobra.Command {
	opts := inputFlags{}

	cmd := &cobra.Command{
		Use:   "explore [file|-]",
		Short: "Browse the elements of a graph interactively",
		Long: `Explore shows the element table of a graph next to the residues, neighbors
and stem pairs of the selected element. With several structures in the input,
tab and shift+tab switch graphs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "-" {
				return errors.New(errors.ErrCodeInvalidInput, "explore needs a file; stdin is used by the terminal UI")
			}
			gs, err := c.loadGraphs(cmd, args[0], opts)
			if err != nil {
				return err
			}
			p := tea.NewProgram(NewExploreModel(gs),
				tea.WithContext(cmd.Context()),
				tea.WithOutput(cmd.OutOrStdout()),
				tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	opts.register(cmd)
	return cmd
}

// =============================================================================
// ExploreModel - Interactive element browser
// =============================================================================

// ExploreModel is the bubbletea model of the element browser.
type ExploreModel struct {
	Graphs []*bulge.Graph
	Graph  int
	Cursor int
	Offset int
	Height int

	elems []bulge.Element
}

// NewExploreModel creates a browser positioned on the first element of
// the first graph.
func NewExploreModel(gs []*bulge.Graph) ExploreModel {
	m := ExploreModel{Graphs: gs, Height: 15}
	m.selectGraph(0)
	return m
}

func (m *ExploreModel) selectGraph(i int) {
	if len(m.Graphs) == 0 {
		return
	}
	m.Graph = (i + len(m.Graphs)) % len(m.Graphs)
	m.elems = m.Graphs[m.Graph].Elements()
	m.Cursor, m.Offset = 0, 0
}

// Selected returns the element under the cursor.
func (m ExploreModel) Selected() (bulge.Element, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.elems) {
		return bulge.Element{}, false
	}
	return m.elems[m.Cursor], true
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "home", "g":
			m.move(-len(m.elems))
		case "end", "G":
			m.move(len(m.elems))
		case "tab":
			m.selectGraph(m.Graph + 1)
		case "shift+tab":
			m.selectGraph(m.Graph - 1)
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
		m.move(0)
	}
	return m, nil
}

// move shifts the cursor by d, clamped to the element list, and scrolls the
// visible window to keep the cursor in view.
func (m *ExploreModel) move(d int) {
	m.Cursor = max(0, min(m.Cursor+d, len(m.elems)-1))
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m ExploreModel) View() string {
	if len(m.Graphs) == 0 {
		return "no graphs\n"
	}
	g := m.Graphs[m.Graph]

	var b strings.Builder
	title := g.Name()
	if len(m.Graphs) > 1 {
		title = fmt.Sprintf("%s (%d/%d)", title, m.Graph+1, len(m.Graphs))
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(colorElementString(g))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  tab next graph  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.elems))
	visible := m.elems[m.Offset:end]
	tbl := elementTable(g, visible, m.Cursor-m.Offset)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tbl, " ", m.detail(g)))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.elems))))

	return b.String()
}

// detail describes the selected element: its residues, neighbors and, for
// stems, the base pairs.
func (m ExploreModel) detail(g *bulge.Graph) string {
	e, ok := m.Selected()
	if !ok {
		return ""
	}

	var lines []string
	lines = append(lines, StyleTitle.Render(e.Name())+" "+listDimStyle.Render(e.Kind.String()))

	res := g.Residues(e.ID)
	if len(res) == 0 {
		lines = append(lines, "between "+joinInts(g.DefineA(e.ID)))
	} else {
		lines = append(lines, "residues "+rangesString(g.Ranges(e.ID)))
		if seq := residueString(g, res); seq != "" {
			lines = append(lines, "sequence "+seq)
		}
	}

	x, y := g.Dimensions(e.ID)
	lines = append(lines, fmt.Sprintf("dims     %d x %d", x, y))

	var nb []string
	for _, n := range g.Neighbors(e.ID) {
		nb = append(nb, g.NameOf(n))
	}
	lines = append(lines, "links    "+strings.Join(nb, " "))

	if e.Kind == bulge.Stem {
		if ps, err := g.StemPairs(e.ID); err == nil {
			var parts []string
			for _, p := range ps {
				parts = append(parts, fmt.Sprintf("%d-%d", p.I, p.J))
			}
			lines = append(lines, "pairs    "+strings.Join(parts, " "))
		}
	}
	return detailBoxStyle.Render(strings.Join(lines, "\n"))
}

func rangesString(rs [][2]int) string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		if r[0] == r[1] {
			parts[i] = fmt.Sprint(r[0])
		} else {
			parts[i] = fmt.Sprintf("%d-%d", r[0], r[1])
		}
	}
	return strings.Join(parts, ", ")
}

func residueString(g *bulge.Graph, positions []int) string {
	seq := g.Sequence()
	var b strings.Builder
	for _, p := range positions {
		c, err := seq.At(p)
		if err != nil {
			return ""
		}
		b.WriteByte(c)
	}
	return b.String()
}
