package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/rnagraph/pkg/bulge"
	"github.com/matzehuels/rnagraph/pkg/errors"
	"github.com/matzehuels/rnagraph/pkg/pairs"
)

var kindFromString = func() map[string]bulge.Kind {
	m := make(map[string]bulge.Kind, len(bulge.Kinds))
	for _, k := range bulge.Kinds {
		m[k.String()] = k
	}
	return m
}()

// ReadJSON decodes a graph written by [WriteJSON].
//
// The nodes and edges are authoritative: they are rebuilt into a graph and
// every structural invariant is checked. When a "structure" field is
// present its base pairs must agree with the stems. Node meta is ignored.
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*bulge.Graph, error) {
	var data graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode")
	}

	var b strings.Builder
	if data.Name != "" {
		fmt.Fprintf(&b, "name %s\n", data.Name)
	}
	if data.Length > 0 {
		fmt.Fprintf(&b, "length %d\n", data.Length)
	}
	if data.Sequence != "" {
		fmt.Fprintf(&b, "seq %s\n", data.Sequence)
	}

	kinds := make(map[string]bulge.Kind, len(data.Nodes))
	for _, n := range data.Nodes {
		k, _, err := bulge.ParseName(n.ID)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "node %s", n.ID)
		}
		if want, ok := kindFromString[n.Kind]; n.Kind != "" && (!ok || want != k) {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "node %s has kind %q", n.ID, n.Kind)
		}
		kinds[n.ID] = k
		b.WriteString("define " + n.ID)
		for _, p := range n.Define {
			b.WriteString(" " + strconv.Itoa(p))
		}
		b.WriteByte('\n')
	}

	var stems []string
	conns := make(map[string][]string)
	for _, e := range data.Edges {
		kf, okf := kinds[e.From]
		kt, okt := kinds[e.To]
		if !okf || !okt {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "edge %s->%s references an unknown node", e.From, e.To)
		}
		if (kf == bulge.Stem) == (kt == bulge.Stem) {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "edge %s->%s must join a stem and a loop", e.From, e.To)
		}
		stem, other := e.From, e.To
		if kf != bulge.Stem {
			stem, other = e.To, e.From
		}
		if _, seen := conns[stem]; !seen {
			stems = append(stems, stem)
		}
		conns[stem] = append(conns[stem], other)
	}
	for _, s := range stems {
		fmt.Fprintf(&b, "connect %s %s\n", s, strings.Join(conns[s], " "))
	}
	for _, in := range data.Info {
		fmt.Fprintf(&b, "info %s %s\n", in.Key, in.Value)
	}

	g, err := bulge.FromText(b.String())
	if err != nil {
		return nil, err
	}
	if data.Structure != "" {
		t, _, err := pairs.ParseDotBracket(data.Structure)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "structure")
		}
		if !slices.Equal(t, g.PairTable()) {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "structure %q disagrees with the stems", data.Structure)
		}
	}
	return g, nil
}

// ImportJSON reads a JSON file at path and returns the decoded graph.
func ImportJSON(path string) (*bulge.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
