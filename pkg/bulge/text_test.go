package bulge

import (
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/rnagraph/pkg/errors"
)

var roundTripStructures = []string{
	"..((..))..",
	"(.(.).)",
	"((.((...))))",
	"((((....))))",
	"(())",
	"......",
	"(.(..).(..).)",
	"((..((...))..((...))..))",
	"((..))((..))",
	"(((...)))..(((...)))",
	"(.((..[[..))..]].)",
	"((..[[..))..]]",
	"([)]",
	"((((..))&))",
	"((.((..))&.))",
	"((..&..))",
	"((..&))",
	"((.)&(.))",
	"((..))((..&..))((..))",
}

func TestInvariants(t *testing.T) {
	for _, db := range roundTripStructures {
		g := mustBuild(t, db)
		if err := g.Validate(); err != nil {
			t.Errorf("%s: Validate() = %v", db, err)
		}
		if got := g.DotBracket(); got != db {
			t.Errorf("DotBracket() = %q, want %q", got, db)
		}
		if got := len(g.ElementString()); got != g.Len() {
			t.Errorf("%s: ElementString() has %d letters", db, got)
		}
		for _, e := range g.Elements() {
			if g.KindOf(e.ID) == Stem {
				continue
			}
			for _, n := range g.Neighbors(e.ID) {
				if g.KindOf(n) != Stem {
					t.Errorf("%s: %s adjacent to %s", db, e.Name(), g.NameOf(n))
				}
			}
		}
	}
}

func TestTextRoundTrip(t *testing.T) {
	for _, db := range roundTripStructures {
		g := mustBuild(t, db)
		text := g.Text()
		back, err := FromText(text)
		if err != nil {
			t.Errorf("%s: FromText: %v\n%s", db, err, text)
			continue
		}
		if got := back.Text(); got != text {
			t.Errorf("%s: text changed\n%s\nwant\n%s", db, got, text)
		}
		if back.DotBracket() != db {
			t.Errorf("%s: DotBracket() after round trip = %q", db, back.DotBracket())
		}
		if !slices.Equal(back.Breaks(), g.Breaks()) {
			t.Errorf("%s: breaks %v, want %v", db, back.Breaks(), g.Breaks())
		}
	}
}

func TestText(t *testing.T) {
	g, err := FromDotBracket("..((..))..", Options{Name: "hairpin", Sequence: "GGAAACCCUU"})
	if err != nil {
		t.Fatal(err)
	}
	g = g.WithInfo("source", "rfam seed")
	want := strings.Join([]string{
		"name hairpin",
		"length 10",
		"seq GGAAACCCUU",
		"seq_ids A:1 A:2 A:3 A:4 A:5 A:6 A:7 A:8 A:9 A:10",
		"define f0 1 2",
		"define s0 3 4 7 8",
		"define h0 5 6",
		"define t0 9 10",
		"connect s0 f0 h0 t0",
		"info source rfam seed",
		"",
	}, "\n")
	if got := g.Text(); got != want {
		t.Errorf("Text() =\n%s\nwant\n%s", got, want)
	}
	back, err := FromText(want)
	if err != nil {
		t.Fatal(err)
	}
	if infos := back.Infos(); len(infos) != 1 || infos[0].Value != "rfam seed" {
		t.Errorf("Infos() = %v", infos)
	}
	if back.Sequence().Residues() != "GGAAACCCUU" {
		t.Errorf("residues = %q", back.Sequence().Residues())
	}
}

func TestFromTextMinimal(t *testing.T) {
	// Length, sequence and residue IDs are optional.
	g, err := FromText("# a hairpin\n\ndefine s0 1 2 5 6\ndefine h0 3 4\nconnect s0 h0\n")
	if err != nil {
		t.Fatal(err)
	}
	if g.Len() != 6 || g.DotBracket() != "((..))" || g.Name() != "untitled" {
		t.Errorf("got %d %q %q", g.Len(), g.DotBracket(), g.Name())
	}
}

func TestFromTextBreaksFromResidueIDs(t *testing.T) {
	g, err := FromText(strings.Join([]string{
		"length 6",
		"seq_ids A:1 A:2 A:3 A:4 B:1 B:2",
		"define s0 1 2 5 6",
		"define t0 3 4",
		"connect s0 t0",
	}, "\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got := g.DotBracket(); got != "((..&))" {
		t.Errorf("DotBracket() = %q", got)
	}
}

func TestFromTextErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		code errors.Code
	}{
		{"unknown key", "name x\nlength 4\ncolour red\n", errors.ErrCodeInvalidFormat},
		{"short stem define", "length 4\ndefine s0 1 2 3\n", errors.ErrCodeInvalidFormat},
		{"bad element name", "length 4\ndefine q0 1 2\n", errors.ErrCodeInvalidFormat},
		{"duplicate define", "length 6\ndefine s0 1 2 5 6\ndefine s0 1 2 5 6\n", errors.ErrCodeInvalidFormat},
		{"connect to unknown", "length 6\ndefine s0 1 2 5 6\ndefine h0 3 4\nconnect s0 h1\n", errors.ErrCodeInvalidFormat},
		{"bad length", "length six\n", errors.ErrCodeInvalidFormat},
		{"no length", "name x\n", errors.ErrCodeInvalidFormat},
		{"sequence length", "length 6\nseq GGAC\ndefine s0 1 2 5 6\ndefine h0 3 4\nconnect s0 h0\n", errors.ErrCodeInvalidFormat},
		{"uncovered position", "length 7\ndefine s0 1 2 5 6\ndefine h0 3 4\nconnect s0 h0\n", errors.ErrCodeGraphIntegrity},
		{"crossed stem", "length 6\ndefine s0 1 2 6 5\n", errors.ErrCodeGraphIntegrity},
		{"missing edge", "length 6\ndefine s0 1 2 5 6\ndefine h0 3 4\n", errors.ErrCodeGraphIntegrity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromText(tt.text)
			if !errors.Is(err, tt.code) {
				t.Errorf("FromText() error = %v, want %s", err, tt.code)
			}
		})
	}
}
