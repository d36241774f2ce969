package io

import (
	"io"
	"os"

	"github.com/matzehuels/rnagraph/pkg/bulge"
	"github.com/matzehuels/rnagraph/pkg/errors"
)

// ReadBG decodes the line-based element graph format of [bulge.Graph.Text].
func ReadBG(r io.Reader) (*bulge.Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read")
	}
	return bulge.FromText(string(data))
}

// WriteBG writes g in the line-based element graph format.
func WriteBG(g *bulge.Graph, w io.Writer) error {
	if _, err := io.WriteString(w, g.Text()); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write")
	}
	return nil
}

// ImportBG reads a graph file at path.
func ImportBG(path string) (*bulge.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadBG(f)
}

// ExportBG writes g to a graph file at path.
func ExportBG(g *bulge.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "create %s", path)
	}
	defer f.Close()
	return WriteBG(g, f)
}
