package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/rnagraph/pkg/bulge"
	"github.com/matzehuels/rnagraph/pkg/errors"
	"github.com/matzehuels/rnagraph/pkg/render"
)

// Options configures element graph rendering.
type Options struct {
	// Detailed adds the define and dimensions to every label.
	Detailed bool
	// Analysis, when set, draws edges of loops outside the minimum spanning
	// forest dashed.
	Analysis *bulge.Analysis
}

type kindStyle struct {
	shape, fill string
}

var kindStyles = map[bulge.Kind]kindStyle{
	bulge.Stem:       {"box", "#8fd694"},
	bulge.Hairpin:    {"ellipse", "#8ab6f9"},
	bulge.Interior:   {"diamond", "#f5e07a"},
	bulge.Multiloop:  {"ellipse", "#f59a8f"},
	bulge.FivePrime:  {"cds", "#d9d9d9"},
	bulge.ThreePrime: {"cds", "#d9d9d9"},
}

// ToDOT converts an element graph to Graphviz DOT. Nodes are emitted in
// canonical element order and each stem is joined to its loops by an
// undirected edge.
func ToDOT(g *bulge.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  label=%q;\n", g.Name())
	buf.WriteString("  node [style=\"filled\", fontsize=18, fontname=\"Helvetica\"];\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, e := range g.Elements() {
		attrs := fmtAttrs(e, fmtLabel(g, e, opts.Detailed))
		fmt.Fprintf(&buf, "  %q [%s];\n", e.Name(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, s := range g.ElementsOf(bulge.Stem) {
		for _, c := range g.Connections(s) {
			edge := fmt.Sprintf("  %q -- %q", g.NameOf(s), g.NameOf(c))
			if opts.Analysis != nil && !opts.Analysis.InMST(c) {
				edge += " [style=dashed]"
			}
			buf.WriteString(edge + ";\n")
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(g *bulge.Graph, e bulge.Element, detailed bool) string {
	if !detailed {
		return e.Name()
	}
	x, y := g.Dimensions(e.ID)
	parts := []string{e.Name()}
	if len(e.Define) > 0 {
		parts = append(parts, fmt.Sprintf("define: %s", joinInts(e.Define)))
	} else {
		parts = append(parts, fmt.Sprintf("between: %s", joinInts(g.DefineA(e.ID))))
	}
	if e.Kind == bulge.Multiloop {
		parts = append(parts, fmt.Sprintf("length: %d", x))
	} else {
		parts = append(parts, fmt.Sprintf("dims: %d x %d", x, y))
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(e bulge.Element, label string) []string {
	st := kindStyles[e.Kind]
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("shape=%s", st.shape),
		fmt.Sprintf("fillcolor=%q", st.fill),
	}
	if len(e.Define) == 0 {
		attrs = append(attrs, "style=\"filled,dashed\"")
	}
	return attrs
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, " ")
}

// RenderSVG renders DOT source to SVG using the embedded Graphviz engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPNG renders DOT source as PNG via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}

// RenderPDF renders DOT source as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}
