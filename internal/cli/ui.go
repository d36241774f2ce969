package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/rnagraph/pkg/bulge"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// kindColors follows the node fills of the rendered diagrams.
var kindColors = map[bulge.Kind]lipgloss.Color{
	bulge.Stem:       lipgloss.Color("114"),
	bulge.Hairpin:    lipgloss.Color("111"),
	bulge.Interior:   lipgloss.Color("222"),
	bulge.Multiloop:  lipgloss.Color("210"),
	bulge.FivePrime:  colorGray,
	bulge.ThreePrime: colorGray,
}

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleHeader  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	styleCell    = lipgloss.NewStyle().Padding(0, 1)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints build statistics on a single line.
func printStats(w io.Writer, graphs, elements int, cached bool) {
	parts := []string{
		plural(graphs, "graph"),
		plural(elements, "element"),
	}
	status := styleComputed.Render(iconFresh)
	if cached {
		status = styleCached.Render(iconCached)
	}

	var b strings.Builder
	b.WriteString("  ")
	for _, p := range parts {
		b.WriteString(StyleDim.Render(p))
		b.WriteString(StyleDim.Render(" · "))
	}
	b.WriteString(status)
	fmt.Fprintln(w, b.String())
}

func printNextStep(w io.Writer, description, cmd string) {
	fmt.Fprintln(w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

// =============================================================================
// Element Rendering
// =============================================================================

// colorElementString renders the element string with one colour per kind.
func colorElementString(g *bulge.Graph) string {
	es := g.ElementString()
	var b strings.Builder
	for i := 0; i < len(es); {
		j := i
		for j < len(es) && es[j] == es[i] {
			j++
		}
		kind, err := bulge.KindFromLetter(es[i])
		if err != nil {
			b.WriteString(es[i:j])
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(kindColors[kind]).Render(es[i:j]))
		}
		i = j
	}
	return b.String()
}

// elementRow is one line of the element table.
func elementRow(g *bulge.Graph, e bulge.Element) []string {
	x, y := g.Dimensions(e.ID)
	define := joinInts(e.Define)
	if define == "" {
		define = "-"
	}
	var conns []string
	for _, c := range g.Neighbors(e.ID) {
		conns = append(conns, g.NameOf(c))
	}
	return []string{
		e.Name(),
		e.Kind.String(),
		define,
		fmt.Sprintf("%dx%d", x, y),
		strings.Join(conns, " "),
	}
}

// elementTable lays out every element of g. The selected row, if in
// range, is highlighted.
func elementTable(g *bulge.Graph, elems []bulge.Element, selected int) string {
	rows := make([][]string, len(elems))
	for i, e := range elems {
		rows[i] = elementRow(g, e)
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(StyleDim).
		Headers("ELEMENT", "KIND", "DEFINE", "DIMS", "NEIGHBORS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			st := styleCell
			if row == selected {
				st = st.Reverse(true)
			}
			if col == 0 && row >= 0 && row < len(elems) {
				st = st.Foreground(kindColors[elems[row].Kind])
			}
			return st
		})
	return t.Render()
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, " ")
}
