package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/rnagraph/pkg/bulge"
)

func mustBuild(t *testing.T, db string) *bulge.Graph {
	t.Helper()
	g, err := bulge.FromDotBracket(db, bulge.Options{Name: "test"})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(mustBuild(t, "..((..)).."), Options{})

	if !strings.Contains(dot, "graph G") || strings.Contains(dot, "digraph") {
		t.Error("ToDOT() output missing undirected graph declaration")
	}
	for _, want := range []string{`"f0" [`, `"s0" [`, `"h0" [`, `"t0" [`, `"s0" -- "h0"`, `"s0" -- "f0"`, `"s0" -- "t0"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %s", want)
		}
	}
	if strings.Count(dot, " -- ") != 3 {
		t.Errorf("ToDOT() edge count = %d, want 3", strings.Count(dot, " -- "))
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(mustBuild(t, "(.(.).)"), Options{Detailed: true})

	if !strings.Contains(dot, `define: 2 2 6 6`) {
		t.Error("ToDOT() detailed output missing interior define")
	}
	if !strings.Contains(dot, `dims: 1 x 1`) {
		t.Error("ToDOT() detailed output missing dimensions")
	}
}

func TestToDOT_ZeroLength(t *testing.T) {
	dot := ToDOT(mustBuild(t, "((..))((..))"), Options{Detailed: true})

	if !strings.Contains(dot, "dashed") {
		t.Error("ToDOT() zero-length multiloop missing dashed style")
	}
	if !strings.Contains(dot, "between: 6 7") {
		t.Error("ToDOT() zero-length multiloop missing flanking residues")
	}
}

func TestToDOT_Analysis(t *testing.T) {
	g := mustBuild(t, "(.(..).(..).)")
	dot := ToDOT(g, Options{Analysis: bulge.Analyze(g)})

	if got := strings.Count(dot, "[style=dashed]"); got != 2 {
		t.Errorf("ToDOT() dashed edges = %d, want 2 (both ends of m2)\n%s", got, dot)
	}
	if strings.Contains(ToDOT(g, Options{}), "[style=dashed]") {
		t.Error("ToDOT() without analysis should not dash edges")
	}
}

func TestFmtLabel_Simple(t *testing.T) {
	g := mustBuild(t, "((..))")
	e, _ := g.Element(0)
	if label := fmtLabel(g, e, false); label != "s0" {
		t.Errorf("fmtLabel() simple mode = %q, want %q", label, "s0")
	}
}

func TestFmtLabel_Multiloop(t *testing.T) {
	g := mustBuild(t, "(.(..).(..).)")
	id, err := g.Lookup("m0")
	if err != nil {
		t.Fatal(err)
	}
	e, _ := g.Element(id)
	label := fmtLabel(g, e, true)
	if !strings.HasPrefix(label, "m0\n") {
		t.Errorf("fmtLabel() detailed should start with name: %q", label)
	}
	if !strings.Contains(label, "length: 1") {
		t.Errorf("fmtLabel() multiloop missing length: %q", label)
	}
}

func TestFmtAttrs(t *testing.T) {
	tests := []struct {
		kind  bulge.Kind
		shape string
	}{
		{bulge.Stem, "box"},
		{bulge.Hairpin, "ellipse"},
		{bulge.Interior, "diamond"},
		{bulge.FivePrime, "cds"},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			attrs := fmtAttrs(bulge.Element{Kind: tt.kind, Define: []int{1, 2}}, "x")
			if len(attrs) != 3 {
				t.Fatalf("fmtAttrs() = %v, want 3 attrs", attrs)
			}
			if attrs[1] != "shape="+tt.shape {
				t.Errorf("fmtAttrs() shape = %q, want %q", attrs[1], tt.shape)
			}
		})
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	dot := ToDOT(mustBuild(t, "((..))"), Options{})
	svg, err := RenderSVG(context.Background(), dot)
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), `not valid DOT {{{`); err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}
