package pairs

import (
	"slices"
	"testing"

	"github.com/matzehuels/rnagraph/pkg/errors"
)

func TestParseDotBracket(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   Table
		breaks []int
	}{
		{"unpaired", "...", Table{3, 0, 0, 0}, nil},
		{"hairpin", "((..))", Table{6, 6, 5, 0, 0, 2, 1}, nil},
		{"pseudoknot", "(.[.).]", Table{7, 5, 0, 7, 0, 1, 0, 3}, nil},
		{"letters", "A.a", Table{3, 3, 0, 1}, nil},
		{"two chains", "(.&.)", Table{4, 4, 0, 0, 1}, []int{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, breaks, err := ParseDotBracket(tt.in)
			if err != nil {
				t.Fatalf("ParseDotBracket(%q) error: %v", tt.in, err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("table = %v, want %v", got, tt.want)
			}
			if !slices.Equal(breaks, tt.breaks) {
				t.Errorf("breaks = %v, want %v", breaks, tt.breaks)
			}
			if err := got.Validate(); err != nil {
				t.Errorf("Validate() error: %v", err)
			}
		})
	}
}

func TestParseDotBracketErrors(t *testing.T) {
	for _, in := range []string{"(()", "())", "(]", "&..", "..&", ".&&.", "(x)", ""} {
		_, _, err := ParseDotBracket(in)
		if !errors.Is(err, errors.ErrCodeInvalidStructure) {
			t.Errorf("ParseDotBracket(%q) error = %v, want construction error", in, err)
		}
	}
}

func TestDotBracketRoundTrip(t *testing.T) {
	for _, in := range []string{
		"..((..))..",
		"((..((...))..((...))..))",
		"(.(.).)",
		"((((....))))",
		"......",
		"(.[.).]",
		"((..[[..))..]]",
	} {
		tbl, _, err := ParseDotBracket(in)
		if err != nil {
			t.Fatalf("ParseDotBracket(%q): %v", in, err)
		}
		if got := tbl.DotBracket(); got != in {
			t.Errorf("DotBracket() = %q, want %q", got, in)
		}
	}
}

func TestDotBracketRederivesFamilies(t *testing.T) {
	// Output brackets depend only on the pairing, not on the symbols read.
	tests := []struct{ in, want string }{
		{"((..<<..))..>>", "((..[[..))..]]"},
		{"(.{.).}", "(.[.).]"},
		{"A.a", "(.)"},
		{"[[..]]", "((..))"},
	}
	for _, tt := range tests {
		tbl, _, err := ParseDotBracket(tt.in)
		if err != nil {
			t.Fatalf("ParseDotBracket(%q): %v", tt.in, err)
		}
		if got := tbl.DotBracket(); got != tt.want {
			t.Errorf("DotBracket(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDotBracketWithBreaks(t *testing.T) {
	tbl, breaks, err := ParseDotBracket("((..))&((..))")
	if err != nil {
		t.Fatal(err)
	}
	if got := tbl.DotBracketWithBreaks(breaks); got != "((..))&((..))" {
		t.Errorf("DotBracketWithBreaks() = %q", got)
	}
}

func TestTuplesRoundTrip(t *testing.T) {
	tbl, _, _ := ParseDotBracket("..((..[[..))..]]")
	back, err := FromTuples(tbl.Tuples())
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(back, tbl) {
		t.Errorf("FromTuples(Tuples()) = %v, want %v", back, tbl)
	}
}

func TestFromTuplesOneDirection(t *testing.T) {
	got, err := FromTuples([]Tuple{{1, 4}, {2, 0}, {3, 0}})
	if err != nil {
		t.Fatal(err)
	}
	if want := (Table{4, 4, 0, 0, 1}); !slices.Equal(got, want) {
		t.Errorf("FromTuples() = %v, want %v", got, want)
	}
}

func TestFromTuplesContradiction(t *testing.T) {
	cases := [][]Tuple{
		{{1, 4}, {4, 2}},
		{{1, 4}, {4, 0}},
		{{4, 0}, {1, 4}},
		{{2, 2}},
	}
	for _, c := range cases {
		if _, err := FromTuples(c); !errors.Is(err, errors.ErrCodeInvalidStructure) {
			t.Errorf("FromTuples(%v) error = %v, want construction error", c, err)
		}
	}
}

func TestFromPairs(t *testing.T) {
	tbl, err := FromPairs(6, []Pair{{1, 6}, {2, 5}})
	if err != nil {
		t.Fatal(err)
	}
	if tbl.DotBracket() != "((..))" {
		t.Errorf("DotBracket() = %q", tbl.DotBracket())
	}
	if _, err := FromPairs(6, []Pair{{1, 6}, {1, 5}}); err == nil {
		t.Error("expected conflict error")
	}
	if _, err := FromPairs(4, []Pair{{1, 6}}); err == nil {
		t.Error("expected range error")
	}
}

func TestPairsAndWithout(t *testing.T) {
	tbl, _, _ := ParseDotBracket("((.[..)).]")
	want := []Pair{{1, 8}, {2, 7}, {4, 10}}
	if got := tbl.Pairs(); !slices.Equal(got, want) {
		t.Errorf("Pairs() = %v, want %v", got, want)
	}
	if !tbl.IsPseudoknotted() {
		t.Error("IsPseudoknotted() = false")
	}
	stripped := tbl.Without([]Pair{{4, 10}})
	if stripped.DotBracket() != "((....)).." {
		t.Errorf("Without() = %q", stripped.DotBracket())
	}
	if stripped.IsPseudoknotted() {
		t.Error("stripped table still pseudoknotted")
	}
	if tbl.DotBracket() != "((.[..)).]" {
		t.Error("Without mutated the receiver")
	}
}

func TestPartner(t *testing.T) {
	tbl, _, _ := ParseDotBracket("(.)")
	if p, err := tbl.Partner(1); err != nil || p != 3 {
		t.Errorf("Partner(1) = %d, %v", p, err)
	}
	if _, err := tbl.Partner(4); !errors.IsRecoverable(err) {
		t.Errorf("Partner(4) error = %v, want lookup error", err)
	}
}

func TestGreedyNester(t *testing.T) {
	// Helix A (1-2 with 11-12) crosses the two-pair helix B (5-6 with
	// 15-16); helix C (7 with 9) crosses neither.
	ps := []Pair{{1, 12}, {2, 11}, {5, 16}, {6, 15}, {7, 9}}
	kept, removed := GreedyNester{}.Nest(ps)
	if len(kept)+len(removed) != len(ps) {
		t.Fatalf("kept %v + removed %v do not partition input", kept, removed)
	}
	tbl, _ := FromPairs(16, kept)
	if tbl.IsPseudoknotted() {
		t.Errorf("kept pairs %v still cross", kept)
	}
	if !slices.Contains(kept, Pair{7, 9}) {
		t.Errorf("non-crossing pair removed: kept=%v", kept)
	}
	// Equal conflicts and sizes: the later helix goes.
	if want := []Pair{{5, 16}, {6, 15}}; !slices.Equal(removed, want) {
		t.Errorf("removed = %v, want %v", removed, want)
	}
}

func TestGreedyNesterNested(t *testing.T) {
	ps := []Pair{{1, 10}, {2, 9}, {4, 6}}
	kept, removed := GreedyNester{}.Nest(ps)
	if len(removed) != 0 || !slices.Equal(kept, ps) {
		t.Errorf("Nest() = %v, %v; want input unchanged", kept, removed)
	}
}

func TestPairCrosses(t *testing.T) {
	if !(Pair{1, 5}).Crosses(Pair{3, 7}) {
		t.Error("(1,5) should cross (3,7)")
	}
	if (Pair{1, 8}).Crosses(Pair{3, 5}) || (Pair{1, 3}).Crosses(Pair{4, 6}) {
		t.Error("nested or disjoint pairs reported as crossing")
	}
	if NewPair(5, 2) != (Pair{2, 5}) {
		t.Error("NewPair did not order its ends")
	}
}
