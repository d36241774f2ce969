package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/rnagraph/pkg/bulge"
	"github.com/matzehuels/rnagraph/pkg/errors"
	rnaio "github.com/matzehuels/rnagraph/pkg/io"
	"github.com/matzehuels/rnagraph/pkg/observability"
)

// Build decodes opts.Input and constructs its element graphs without
// caching.
func Build(ctx context.Context, opts Options) ([]*bulge.Graph, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return nil, err
	}

	hooks := observability.Build()
	hooks.OnBuildStart(ctx, opts.Name, len(opts.Input))
	start := time.Now()

	gs, err := rnaio.Read(bytes.NewReader(opts.Input), rnaio.ReadOptions{
		Format: opts.InputFormat,
		Name:   opts.Name,
		Split:  opts.Split,
	})
	elements := 0
	for _, g := range gs {
		elements += g.NumElements()
	}
	hooks.OnBuildComplete(ctx, opts.Name, elements, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	opts.Logger.Debug("built graphs", "format", opts.InputFormat, "graphs", len(gs), "elements", elements)
	return gs, nil
}

// encodeGraphs serializes graphs for the cache as a JSON array of bg texts.
func encodeGraphs(gs []*bulge.Graph) ([]byte, error) {
	texts := make([]string, len(gs))
	for i, g := range gs {
		texts[i] = g.Text()
	}
	return json.Marshal(texts)
}

func decodeGraphs(data []byte) ([]*bulge.Graph, error) {
	var texts []string
	if err := json.Unmarshal(data, &texts); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode cached graphs")
	}
	gs := make([]*bulge.Graph, len(texts))
	for i, text := range texts {
		g, err := bulge.FromText(text)
		if err != nil {
			return nil, err
		}
		gs[i] = g
	}
	return gs, nil
}
