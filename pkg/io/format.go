package io

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/rnagraph/pkg/bulge"
	"github.com/matzehuels/rnagraph/pkg/errors"
)

// Format names a file format understood by [Read] and [Write].
type Format string

const (
	FormatBG    Format = "bg"
	FormatFASTA Format = "fasta"
	FormatBPSeq Format = "bpseq"
	FormatJSON  Format = "json"
)

// Formats lists the supported formats.
var Formats = []Format{FormatBG, FormatFASTA, FormatBPSeq, FormatJSON}

var extensions = map[string]Format{
	".bg":         FormatBG,
	".cg":         FormatBG,
	".fa":         FormatFASTA,
	".fasta":      FormatFASTA,
	".db":         FormatFASTA,
	".dbn":        FormatFASTA,
	".dotbracket": FormatFASTA,
	".bpseq":      FormatBPSeq,
	".json":       FormatJSON,
}

// ParseFormat validates a format name. "dotbracket" and "db" are accepted
// for [FormatFASTA].
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatBG, FormatFASTA, FormatBPSeq, FormatJSON:
		return f, nil
	case "dotbracket", "db":
		return FormatFASTA, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown format %q", s)
}

// DetectFormat guesses the format of path from its extension, falling back
// to [FormatFASTA].
func DetectFormat(path string) Format {
	if f, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return f
	}
	return FormatFASTA
}

// ReadOptions control [Read] and [Load].
type ReadOptions struct {
	// Format of the input. Load detects it from the file name when empty;
	// Read requires it.
	Format Format
	// Name is used for records without their own name.
	Name string
	// Split builds one graph per group of connected chains instead of
	// failing on disconnected chains.
	Split bool
}

// Read decodes every graph in r.
func Read(r io.Reader, opts ReadOptions) ([]*bulge.Graph, error) {
	switch opts.Format {
	case FormatBG:
		g, err := ReadBG(r)
		if err != nil {
			return nil, err
		}
		return []*bulge.Graph{g}, nil
	case FormatJSON:
		g, err := ReadJSON(r)
		if err != nil {
			return nil, err
		}
		return []*bulge.Graph{g}, nil
	case FormatBPSeq:
		b, err := ReadBPSeq(r)
		if err != nil {
			return nil, err
		}
		if opts.Split {
			return bulge.FromPairTableComponents(b.Table, nil, bulge.Options{Name: opts.Name, Sequence: b.Sequence})
		}
		g, err := b.Graph(opts.Name)
		if err != nil {
			return nil, err
		}
		return []*bulge.Graph{g}, nil
	case FormatFASTA:
		recs, err := ReadFASTA(r)
		if err != nil {
			return nil, err
		}
		var out []*bulge.Graph
		for _, rec := range recs {
			if rec.Name == "" {
				rec.Name = opts.Name
			}
			if opts.Split {
				gs, err := rec.Components()
				if err != nil {
					return nil, errors.Wrap(errors.GetCode(err), err, "record %s", rec.Name)
				}
				out = append(out, gs...)
				continue
			}
			g, err := rec.Graph()
			if err != nil {
				return nil, errors.Wrap(errors.GetCode(err), err, "record %s", rec.Name)
			}
			out = append(out, g)
		}
		return out, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown format %q", opts.Format)
}

// ReadString decodes every graph in s.
func ReadString(s string, opts ReadOptions) ([]*bulge.Graph, error) {
	return Read(strings.NewReader(s), opts)
}

// Load reads a file. The format is detected from the extension unless
// opts.Format is set, and records without a name are named after the file.
func Load(path string, opts ReadOptions) ([]*bulge.Graph, error) {
	if opts.Format == "" {
		opts.Format = DetectFormat(path)
	}
	if opts.Name == "" {
		opts.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return Read(f, opts)
}

// Write encodes g in format f.
func Write(w io.Writer, g *bulge.Graph, f Format) error {
	switch f {
	case FormatBG:
		return WriteBG(g, w)
	case FormatJSON:
		return WriteJSON(g, w)
	case FormatBPSeq:
		return WriteBPSeq(g, w)
	case FormatFASTA:
		return WriteFASTA(w, []Record{RecordOf(g)})
	}
	return errors.New(errors.ErrCodeInvalidInput, "unknown format %q", f)
}

// Marshal encodes g in format f.
func Marshal(g *bulge.Graph, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, g, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
