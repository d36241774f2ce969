package pipeline

import (
	"context"
	"io"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rnagraph/pkg/cache"
	"github.com/matzehuels/rnagraph/pkg/errors"
	"github.com/matzehuels/rnagraph/pkg/observability"
)

const hairpin = ">hp\nGGGAAACCC\n(((...)))\n"

func newTestRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.New(io.Discard))
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"bg", false},
		{"dotbracket", false},
		{"elements", false},
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"SVG", true},
		{"fasta", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Input: []byte("(..)")}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.InputFormat != "fasta" || opts.Scale != DefaultScale || len(opts.Formats) != 1 || opts.Formats[0] != DefaultFormat {
		t.Errorf("defaults = %+v", opts)
	}
	if opts.Logger == nil {
		t.Error("Logger default not set")
	}

	opts = Options{Input: []byte("x"), InputFormat: "DotBracket"}
	if err := opts.ValidateForBuild(); err != nil || opts.InputFormat != "fasta" {
		t.Errorf("InputFormat alias = %q, %v", opts.InputFormat, err)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Detailed: true, Analysis: true, Scale: 3}
	if k := opts.ArtifactKeyOpts(FormatBG); k.Detailed || k.Analysis || k.Scale != 0 {
		t.Errorf("text format key carries drawing options: %+v", k)
	}
	if k := opts.ArtifactKeyOpts(FormatPNG); !k.Detailed || k.Scale != 3 {
		t.Errorf("png key = %+v", k)
	}
}

func TestExecute(t *testing.T) {
	r := newTestRunner(nil)
	res, err := r.Execute(context.Background(), Options{
		Input:   []byte(hairpin),
		Formats: []string{FormatElements, FormatDotBracket, FormatDOT, FormatBG},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Outputs) != 1 || res.Stats.Graphs != 1 || res.Stats.Elements != 2 {
		t.Fatalf("result = %+v", res.Stats)
	}
	out := res.Outputs[0]
	if got := string(out.Artifacts[FormatElements]); got != "ssshhhsss\n" {
		t.Errorf("elements = %q", got)
	}
	if got := string(out.Artifacts[FormatDotBracket]); got != hairpin {
		t.Errorf("dotbracket = %q", got)
	}
	if got := string(out.Artifacts[FormatDOT]); !strings.Contains(got, `"s0" -- "h0"`) {
		t.Errorf("dot = %q", got)
	}
	if got := string(out.Artifacts[FormatBG]); !strings.Contains(got, "define h0 4 6") {
		t.Errorf("bg = %q", got)
	}
	if res.CacheInfo.BuildHit || res.CacheInfo.RenderHit {
		t.Error("null cache should never hit")
	}
}

func TestExecuteSplit(t *testing.T) {
	r := newTestRunner(nil)
	res, err := r.Execute(context.Background(), Options{
		Input:   []byte("((..))&((...))"),
		Name:    "pair",
		Split:   true,
		Formats: []string{FormatElements},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Outputs) != 2 {
		t.Fatalf("got %d outputs", len(res.Outputs))
	}
	for i, want := range []string{"pair_1", "pair_2"} {
		if got := res.Outputs[i].Graph.Name(); got != want {
			t.Errorf("output %d name = %q, want %q", i, got, want)
		}
	}
}

type countingHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets atomic.Int32
}

func (h *countingHooks) OnCacheHit(context.Context, string)      { h.hits.Add(1) }
func (h *countingHooks) OnCacheMiss(context.Context, string)     { h.misses.Add(1) }
func (h *countingHooks) OnCacheSet(context.Context, string, int) { h.sets.Add(1) }

func TestExecuteCaching(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	ctx := context.Background()
	mem := cache.NewMemoryCache()
	r := newTestRunner(mem)
	opts := Options{Input: []byte(hairpin), Formats: []string{FormatBG, FormatElements}}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.BuildHit || first.CacheInfo.RenderHit {
		t.Error("first run should miss")
	}
	if mem.Len() != 3 {
		t.Errorf("cache entries = %d, want 3", mem.Len())
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.BuildHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run cache info = %+v", second.CacheInfo)
	}
	if second.GraphKey != first.GraphKey {
		t.Error("graph key changed between runs")
	}
	if string(second.Outputs[0].Artifacts[FormatBG]) != string(first.Outputs[0].Artifacts[FormatBG]) {
		t.Error("cached artifact differs")
	}
	if h, m, s := hooks.hits.Load(), hooks.misses.Load(), hooks.sets.Load(); h != 3 || m != 3 || s != 3 {
		t.Errorf("hooks hits=%d misses=%d sets=%d, want 3 each", h, m, s)
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.BuildHit {
		t.Error("refresh should rebuild")
	}

	opts.Formats = append(opts.Formats, FormatDOT)
	fourth, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if fourth.CacheInfo.RenderHit {
		t.Error("new format should miss")
	}
	if len(fourth.Outputs[0].Artifacts) != 3 {
		t.Errorf("artifacts = %d, want 3", len(fourth.Outputs[0].Artifacts))
	}
}

func TestExecuteErrors(t *testing.T) {
	r := newTestRunner(nil)
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"empty input", Options{}, errors.ErrCodeInvalidInput},
		{"unknown input format", Options{Input: []byte("(..)"), InputFormat: "ct"}, errors.ErrCodeInvalidInput},
		{"unknown artifact", Options{Input: []byte("(..)"), Formats: []string{"gif"}}, errors.ErrCodeInvalidInput},
		{"unbalanced", Options{Input: []byte("((..)")}, errors.ErrCodeInvalidStructure},
		{"disconnected", Options{Input: []byte("(..)&(..)")}, errors.ErrCodeInvalidStructure},
		{"bpseq with breaks", Options{Input: []byte("((&))"), Formats: []string{FormatBPSeq}}, errors.ErrCodeUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Execute(context.Background(), tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("Execute() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestCachedGraphsRoundTrip(t *testing.T) {
	gs, err := Build(context.Background(), Options{Input: []byte(">a\n((.)&(.))\n>b\n..((..))..\n")})
	if err != nil {
		t.Fatal(err)
	}
	data, err := encodeGraphs(gs)
	if err != nil {
		t.Fatal(err)
	}
	back, err := decodeGraphs(data)
	if err != nil {
		t.Fatal(err)
	}
	for i := range gs {
		if back[i].Text() != gs[i].Text() {
			t.Errorf("graph %d changed:\n%s\nwant\n%s", i, back[i].Text(), gs[i].Text())
		}
	}
	if _, err := decodeGraphs([]byte("{")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("decodeGraphs(garbage) error = %v", err)
	}
}
