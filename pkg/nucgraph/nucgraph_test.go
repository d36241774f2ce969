package nucgraph

import (
	"slices"
	"testing"

	"github.com/matzehuels/rnagraph/pkg/pairs"
)

func mustTable(t *testing.T, db string) (pairs.Table, []int) {
	t.Helper()
	tbl, breaks, err := pairs.ParseDotBracket(db)
	if err != nil {
		t.Fatalf("ParseDotBracket(%q): %v", db, err)
	}
	return tbl, breaks
}

func TestFromTable(t *testing.T) {
	tbl, breaks := mustTable(t, "((..))")
	g := FromTable(tbl, breaks)
	if g.Len() != 6 {
		t.Errorf("Len() = %d, want 6", g.Len())
	}
	// 5 backbone + 2 pairs
	if g.EdgeCount() != 7 {
		t.Errorf("EdgeCount() = %d, want 7", g.EdgeCount())
	}
	if !g.HasEdge(1, 6) || !g.HasEdge(6, 1) {
		t.Error("missing base-pair edge 1-6")
	}
	if got := g.Neighbors(2); !slices.Equal(got, []int{1, 3, 5}) {
		t.Errorf("Neighbors(2) = %v", got)
	}
}

func TestDistances(t *testing.T) {
	tbl, breaks := mustTable(t, "(....)")
	d := FromTable(tbl, breaks).Distances(1)
	want := []int{Unreachable, 0, 1, 2, 3, 2, 1}
	if !slices.Equal(d, want) {
		t.Errorf("Distances(1) = %v, want %v", d, want)
	}
}

func TestComponents(t *testing.T) {
	tests := []struct {
		db   string
		want int
	}{
		{"((..))&((..))", 2},
		{"((..&..))", 1},
		{"..&..&..", 3},
		{"(.&.)&..", 2},
	}
	for _, tt := range tests {
		tbl, breaks := mustTable(t, tt.db)
		g := FromTable(tbl, breaks)
		if got := len(g.Components()); got != tt.want {
			t.Errorf("%s: %d components, want %d", tt.db, got, tt.want)
		}
		if g.Connected() != (tt.want == 1) {
			t.Errorf("%s: Connected() = %v", tt.db, g.Connected())
		}
	}
}

func TestUnreachableAcrossBreak(t *testing.T) {
	tbl, breaks := mustTable(t, "..&..")
	all := FromTable(tbl, breaks).AllPairs()
	if all[1][3] != Unreachable {
		t.Errorf("distance 1->3 = %d, want unreachable", all[1][3])
	}
	if all[3][4] != 1 {
		t.Errorf("distance 3->4 = %d, want 1", all[3][4])
	}
}

func TestAddEdge(t *testing.T) {
	g := New(3)
	if err := g.AddEdge(1, 3); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdge(1, 3); err != nil {
		t.Fatal(err)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("duplicate edge counted: %d", g.EdgeCount())
	}
	if err := g.AddEdge(2, 2); err == nil {
		t.Error("self loop accepted")
	}
	if err := g.AddEdge(0, 4); err == nil {
		t.Error("out of range edge accepted")
	}
}

func TestAllPairsMatchesDistances(t *testing.T) {
	tbl, breaks := mustTable(t, "((..[[..))..]]&.(.)")
	g := FromTable(tbl, breaks)
	all := g.AllPairs()
	for u := 1; u <= g.Len(); u++ {
		if d := g.Distances(u); !slices.Equal(all[u], d) {
			t.Errorf("AllPairs()[%d] = %v, Distances(%d) = %v", u, all[u], u, d)
		}
		for v := 1; v <= g.Len(); v++ {
			if all[u][v] != all[v][u] {
				t.Errorf("distance %d-%d not symmetric: %d vs %d", u, v, all[u][v], all[v][u])
			}
		}
	}
	// 1-10-11-12-13 through the closing pair.
	if all[1][13] != 4 {
		t.Errorf("distance 1->13 = %d, want 4", all[1][13])
	}
	if all[1][15] != Unreachable {
		t.Errorf("distance across the break = %d, want unreachable", all[1][15])
	}
}

func TestComponentsOrder(t *testing.T) {
	tbl, breaks := mustTable(t, "(.&..&.)")
	got := FromTable(tbl, breaks).Components()
	want := [][]int{{1, 2, 5, 6}, {3, 4}}
	if !slices.EqualFunc(got, want, slices.Equal) {
		t.Errorf("Components() = %v, want %v", got, want)
	}
}
