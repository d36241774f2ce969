package io_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/rnagraph/pkg/bulge"
	"github.com/matzehuels/rnagraph/pkg/errors"
	rnaio "github.com/matzehuels/rnagraph/pkg/io"
)

func build(t *testing.T, db, seq string) *bulge.Graph {
	t.Helper()
	g, err := bulge.FromDotBracket(db, bulge.Options{Name: "test", Sequence: seq})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestJSONRoundTrip(t *testing.T) {
	for _, db := range []string{
		"..((..))..",
		"(.(..).(..).)",
		"((..))((..))",
		"(.((..[[..))..]].)",
		"((((..))&))",
		"((.)&(.))",
	} {
		g := build(t, db, "").WithInfo("source", "unit test")
		var buf bytes.Buffer
		if err := rnaio.WriteJSON(g, &buf); err != nil {
			t.Fatal(err)
		}
		back, err := rnaio.ReadJSON(&buf)
		if err != nil {
			t.Fatalf("%s: ReadJSON: %v", db, err)
		}
		if back.Text() != g.Text() {
			t.Errorf("%s: round trip changed graph\n%s\nwant\n%s", db, back.Text(), g.Text())
		}
	}
}

func TestWriteJSONShape(t *testing.T) {
	var buf bytes.Buffer
	if err := rnaio.WriteJSON(build(t, "((..))((..))", ""), &buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{`"id": "m0"`, `"define": []`, `"from": "s0"`, `"kind": "multiloop"`, `"structure": "((..))((..))"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s", want)
		}
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
		code errors.Code
	}{
		{"malformed", `{"nodes": [`, errors.ErrCodeInvalidFormat},
		{"loop to loop", `{"length": 6, "nodes": [{"id": "s0", "define": [1,2,5,6]}, {"id": "h0", "define": [3,4]}, {"id": "h1", "define": []}], "edges": [{"from": "h0", "to": "h1"}]}`, errors.ErrCodeInvalidFormat},
		{"unknown node", `{"length": 6, "nodes": [{"id": "s0", "define": [1,2,5,6]}], "edges": [{"from": "s0", "to": "h0"}]}`, errors.ErrCodeInvalidFormat},
		{"kind mismatch", `{"length": 6, "nodes": [{"id": "s0", "kind": "hairpin", "define": [1,2,5,6]}], "edges": []}`, errors.ErrCodeInvalidFormat},
		{"structure mismatch", `{"length": 6, "structure": "(....)", "nodes": [{"id": "s0", "define": [1,2,5,6]}, {"id": "h0", "define": [3,4]}], "edges": [{"from": "s0", "to": "h0"}]}`, errors.ErrCodeInvalidFormat},
		{"uncovered", `{"length": 8, "nodes": [{"id": "s0", "define": [1,2,5,6]}, {"id": "h0", "define": [3,4]}], "edges": [{"from": "h0", "to": "s0"}]}`, errors.ErrCodeGraphIntegrity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rnaio.ReadJSON(strings.NewReader(tt.json))
			if !errors.Is(err, tt.code) {
				t.Errorf("ReadJSON() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestReadFASTA(t *testing.T) {
	input := `# two records
>hairpin
GGGAAACCC
(((...))) (-1.20)

>duplex
GGAC&GUCC
((((&))))
`
	recs, err := rnaio.ReadFASTA(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	want := []rnaio.Record{
		{Name: "hairpin", Sequence: "GGGAAACCC", Structure: "(((...)))"},
		{Name: "duplex", Sequence: "GGAC&GUCC", Structure: "((((&))))"},
	}
	if len(recs) != len(want) {
		t.Fatalf("got %d records", len(recs))
	}
	for i := range want {
		if recs[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, recs[i], want[i])
		}
	}
	g, err := recs[1].Graph()
	if err != nil {
		t.Fatal(err)
	}
	if g.ElementString() != "ssssssss" || g.Name() != "duplex" {
		t.Errorf("duplex = %q %q", g.ElementString(), g.Name())
	}
}

func TestReadFASTABareStructure(t *testing.T) {
	recs, err := rnaio.ReadFASTA(strings.NewReader("((..))\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Structure != "((..))" || recs[0].Name != "" || recs[0].Sequence != "" {
		t.Errorf("records = %+v", recs)
	}
	if _, err := rnaio.ReadFASTA(strings.NewReader(">empty\n")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("header without structure error = %v", err)
	}
	if _, err := rnaio.ReadFASTA(strings.NewReader("\n# nothing\n")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("empty input error = %v", err)
	}
}

func TestWriteFASTA(t *testing.T) {
	var buf bytes.Buffer
	recs := []rnaio.Record{
		rnaio.RecordOf(build(t, "((..))", "GGAACC")),
		rnaio.RecordOf(build(t, "(..)", "")),
	}
	if err := rnaio.WriteFASTA(&buf, recs); err != nil {
		t.Fatal(err)
	}
	want := ">test\nGGAACC\n((..))\n>test\n(..)\n"
	if buf.String() != want {
		t.Errorf("WriteFASTA() = %q, want %q", buf.String(), want)
	}
}

func TestBPSeq(t *testing.T) {
	input := `Filename: hairpin.ct
# generated
1 G 6
2 G 5
3 A 0
4 A 0
5 C 2
6 C 1
`
	b, err := rnaio.ReadBPSeq(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	g, err := b.Graph("hp")
	if err != nil {
		t.Fatal(err)
	}
	if g.DotBracket() != "((..))" || g.Sequence().Residues() != "GGAACC" {
		t.Errorf("got %q %q", g.DotBracket(), g.Sequence().Residues())
	}

	var buf bytes.Buffer
	if err := rnaio.WriteBPSeq(g, &buf); err != nil {
		t.Fatal(err)
	}
	if want := "1 G 6\n2 G 5\n3 A 0\n4 A 0\n5 C 2\n6 C 1\n"; buf.String() != want {
		t.Errorf("WriteBPSeq() = %q", buf.String())
	}
}

func TestBPSeqErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{"contradiction", "1 G 4\n2 A 0\n3 A 0\n4 C 2\n", errors.ErrCodeInvalidStructure},
		{"paired and unpaired", "1 G 4\n2 A 0\n3 A 0\n4 C 0\n", errors.ErrCodeInvalidStructure},
		{"gap", "1 G 0\n3 A 0\n", errors.ErrCodeInvalidFormat},
		{"short line", "1 G\n", errors.ErrCodeInvalidFormat},
		{"partner out of range", "1 G 9\n2 C 0\n", errors.ErrCodeInvalidStructure},
		{"empty", "# nothing\n", errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := rnaio.ReadBPSeq(strings.NewReader(tt.input)); !errors.Is(err, tt.code) {
				t.Errorf("ReadBPSeq() error = %v, want %s", err, tt.code)
			}
		})
	}

	cofold := build(t, "((&))", "")
	if err := rnaio.WriteBPSeq(cofold, &bytes.Buffer{}); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("WriteBPSeq with breaks error = %v", err)
	}
}

func TestFormats(t *testing.T) {
	for path, want := range map[string]rnaio.Format{
		"a.bg":       rnaio.FormatBG,
		"a.JSON":     rnaio.FormatJSON,
		"x/y.bpseq":  rnaio.FormatBPSeq,
		"trna.dbn":   rnaio.FormatFASTA,
		"no-ext":     rnaio.FormatFASTA,
		"struct.fas": rnaio.FormatFASTA,
	} {
		if got := rnaio.DetectFormat(path); got != want {
			t.Errorf("DetectFormat(%q) = %q, want %q", path, got, want)
		}
	}
	if f, err := rnaio.ParseFormat("DotBracket"); err != nil || f != rnaio.FormatFASTA {
		t.Errorf("ParseFormat(DotBracket) = %q, %v", f, err)
	}
	if _, err := rnaio.ParseFormat("ct"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ParseFormat(ct) error = %v", err)
	}
}

func TestLoadAndWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pair.dbn")
	if err := os.WriteFile(path, []byte("((..))&((..))\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := rnaio.Load(path, rnaio.ReadOptions{}); !errors.Is(err, errors.ErrCodeInvalidStructure) {
		t.Errorf("joint load error = %v", err)
	}
	gs, err := rnaio.Load(path, rnaio.ReadOptions{Split: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(gs) != 2 || gs[0].Name() != "pair_1" || gs[1].Name() != "pair_2" {
		t.Fatalf("Load() returned %d graphs", len(gs))
	}

	for _, f := range rnaio.Formats {
		if f == rnaio.FormatBPSeq {
			continue
		}
		data, err := rnaio.Marshal(build(t, "((.)&(.))", ""), f)
		if err != nil {
			t.Fatal(err)
		}
		gs, err := rnaio.ReadString(string(data), rnaio.ReadOptions{Format: f, Name: "test"})
		if err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		if len(gs) != 1 || gs[0].DotBracket() != "((.)&(.))" {
			t.Errorf("%s: round trip failed", f)
		}
	}

	bgPath := filepath.Join(dir, "g.bg")
	if err := rnaio.ExportBG(build(t, "..((..))..", ""), bgPath); err != nil {
		t.Fatal(err)
	}
	g, err := rnaio.ImportBG(bgPath)
	if err != nil {
		t.Fatal(err)
	}
	if g.ElementString() != "ffsshhsstt" {
		t.Errorf("ImportBG() = %q", g.ElementString())
	}
}
