// Package pipeline turns structure input into element graphs and rendered
// artifacts.
//
// The pipeline has two stages:
//
//  1. Build: decode the input (FASTA dot-bracket, bpseq, bg or JSON) and
//     construct one element graph per record
//  2. Render: produce the requested artifacts for every graph
//
// The CLI and the HTTP server share the same [Runner], so both cache built
// graphs and artifacts the same way.
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   []byte(">trna\n(((...)))\n"),
//	    Formats: []string{pipeline.FormatBG, pipeline.FormatSVG},
//	})
//	svg := res.Outputs[0].Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rnagraph/pkg/bulge"
	"github.com/matzehuels/rnagraph/pkg/cache"
	"github.com/matzehuels/rnagraph/pkg/errors"
	rnaio "github.com/matzehuels/rnagraph/pkg/io"
)

// Artifact formats.
const (
	FormatBG         = "bg"
	FormatDotBracket = "dotbracket"
	FormatBPSeq      = "bpseq"
	FormatElements   = "elements"
	FormatJSON       = "json"
	FormatDOT        = "dot"
	FormatSVG        = "svg"
	FormatPNG        = "png"
	FormatPDF        = "pdf"
)

// ArtifactFormats lists every artifact format in a stable order.
var ArtifactFormats = []string{
	FormatBG, FormatDotBracket, FormatBPSeq, FormatElements, FormatJSON,
	FormatDOT, FormatSVG, FormatPNG, FormatPDF,
}

const (
	// DefaultFormat is rendered when Options.Formats is empty.
	DefaultFormat = FormatBG

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0
)

// Options configure a pipeline run.
type Options struct {
	// Build options
	Input       []byte       `json:"input"`
	InputFormat rnaio.Format `json:"input_format,omitempty"`
	Name        string       `json:"name,omitempty"`
	Split       bool         `json:"split,omitempty"`
	Refresh     bool         `json:"refresh,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	Analysis bool     `json:"analysis,omitempty"`
	Scale    float64  `json:"scale,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Output is one built graph and its artifacts.
type Output struct {
	Graph     *bulge.Graph
	Artifacts map[string][]byte
}

// Result is the outcome of [Runner.Execute].
type Result struct {
	// GraphKey is the cache key of the built graphs.
	GraphKey  string
	Outputs   []Output
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds sizes and stage timings.
type Stats struct {
	Graphs     int
	Elements   int
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo records which stages were served from cache.
type CacheInfo struct {
	BuildHit  bool
	RenderHit bool // every artifact of every graph came from cache
}

// ValidateFormat checks an artifact format name.
func ValidateFormat(format string) error {
	if !slices.Contains(ArtifactFormats, format) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format %q (must be one of: %s)",
			format, strings.Join(ArtifactFormats, ", "))
	}
	return nil
}

// ValidateFormats checks every format in formats.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateForBuild checks the build options and fills defaults.
func (o *Options) ValidateForBuild() error {
	if len(o.Input) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "input is required")
	}
	if o.InputFormat == "" {
		o.InputFormat = rnaio.FormatFASTA
	} else {
		f, err := rnaio.ParseFormat(string(o.InputFormat))
		if err != nil {
			return err
		}
		o.InputFormat = f
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateForRender checks the render options and fills defaults.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return ValidateFormats(o.Formats)
}

// ValidateAndSetDefaults runs both validations.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// GraphKeyOpts returns the cache key options for the build stage.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{Format: string(o.InputFormat), Name: o.Name, Split: o.Split}
}

// ArtifactKeyOpts returns the cache key options for one artifact.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	if isDrawing(format) {
		k.Detailed = o.Detailed
		k.Analysis = o.Analysis
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}

func isDrawing(format string) bool {
	switch format {
	case FormatDOT, FormatSVG, FormatPNG, FormatPDF:
		return true
	}
	return false
}
