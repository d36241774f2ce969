package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/rnagraph/pkg/bulge"
	"github.com/matzehuels/rnagraph/pkg/errors"
)

type graph struct {
	Name      string `json:"name"`
	Length    int    `json:"length"`
	Sequence  string `json:"sequence,omitempty"`
	Structure string `json:"structure,omitempty"`
	Nodes     []node `json:"nodes"`
	Edges     []edge `json:"edges"`
	Info      []info `json:"info,omitempty"`
}

type node struct {
	ID     string         `json:"id"`
	Kind   string         `json:"kind"`
	Define []int          `json:"define"`
	Meta   map[string]any `json:"meta,omitempty"`
}

type edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type info struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// WriteJSON encodes the element graph as JSON and writes it to w.
//
// Nodes appear in element ID order; edges run from each stem to its
// neighbours in backbone order. Node meta carries derived values (length,
// dimensions) that [ReadJSON] ignores.
func WriteJSON(g *bulge.Graph, w io.Writer) error {
	out := graph{
		Name:      g.Name(),
		Length:    g.Len(),
		Sequence:  g.Sequence().String(),
		Structure: g.DotBracket(),
		Nodes:     make([]node, 0, g.NumElements()),
	}
	for _, e := range g.Elements() {
		x, y := g.Dimensions(e.ID)
		out.Nodes = append(out.Nodes, node{
			ID:     e.Name(),
			Kind:   e.Kind.String(),
			Define: append([]int{}, e.Define...),
			Meta: map[string]any{
				"length":     g.ElementLength(e.ID),
				"dimensions": []int{x, y},
			},
		})
	}
	for _, s := range g.ElementsOf(bulge.Stem) {
		for _, c := range g.Connections(s) {
			out.Edges = append(out.Edges, edge{From: g.NameOf(s), To: g.NameOf(c)})
		}
	}
	for _, in := range g.Infos() {
		out.Info = append(out.Info, info{Key: in.Key, Value: in.Value})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode")
	}
	return nil
}

// ExportJSON writes the element graph to a JSON file at path.
func ExportJSON(g *bulge.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "create %s", path)
	}
	defer f.Close()
	return WriteJSON(g, f)
}
