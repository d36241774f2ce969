package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/rnagraph/pkg/bulge"
	"github.com/matzehuels/rnagraph/pkg/errors"
	rnaio "github.com/matzehuels/rnagraph/pkg/io"
	"github.com/matzehuels/rnagraph/pkg/observability"
	"github.com/matzehuels/rnagraph/pkg/render/nodelink"
)

// Render produces every format in opts.Formats for g.
func Render(ctx context.Context, g *bulge.Graph, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	var dot string
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if _, done := artifacts[format]; done {
			continue
		}
		if isDrawing(format) && dot == "" {
			dot = toDOT(ctx, g, opts)
		}

		start := time.Now()
		data, err := renderOne(ctx, g, dot, format, opts)
		observability.Build().OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func toDOT(ctx context.Context, g *bulge.Graph, opts Options) string {
	nl := nodelink.Options{Detailed: opts.Detailed}
	if opts.Analysis {
		start := time.Now()
		nl.Analysis = bulge.Analyze(g)
		observability.Build().OnAnalyzeComplete(ctx, g.Name(), time.Since(start))
	}
	return nodelink.ToDOT(g, nl)
}

func renderOne(ctx context.Context, g *bulge.Graph, dot, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatBG:
		return rnaio.Marshal(g, rnaio.FormatBG)
	case FormatDotBracket:
		return rnaio.Marshal(g, rnaio.FormatFASTA)
	case FormatBPSeq:
		return rnaio.Marshal(g, rnaio.FormatBPSeq)
	case FormatJSON:
		return rnaio.Marshal(g, rnaio.FormatJSON)
	case FormatElements:
		return []byte(g.ElementString() + "\n"), nil
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return nodelink.RenderSVG(ctx, dot)
	case FormatPNG:
		return nodelink.RenderPNG(ctx, dot, opts.Scale)
	case FormatPDF:
		return nodelink.RenderPDF(ctx, dot)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format)
}
