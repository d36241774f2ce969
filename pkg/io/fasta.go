package io

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/rnagraph/pkg/bulge"
	"github.com/matzehuels/rnagraph/pkg/errors"
)

// Record is one entry of a FASTA-style dot-bracket file:
//
//	>tRNA-like
//	GCGGAUUUAGCUCAGUUGGGAGAGCGCCAGACUGAAGAUCUGGAGGUCCUGUGUUCGAUCCACAGAAUUCGCACCA
//	(((((((..((((........)))).(((((.......))))).....(((((.......))))))))))))....
//
// The last line of a record is the structure; any lines before it form the
// sequence. Trailing fields on the structure line, such as an energy
// annotation, are dropped.
type Record struct {
	Name      string
	Sequence  string
	Structure string
}

// Options returns the construction options for r.
func (r Record) Options() bulge.Options {
	return bulge.Options{Name: r.Name, Sequence: r.Sequence}
}

// Graph builds the element graph of r. All chains must be connected.
func (r Record) Graph() (*bulge.Graph, error) {
	return bulge.FromDotBracket(r.Structure, r.Options())
}

// Components builds one graph per group of connected chains.
func (r Record) Components() ([]*bulge.Graph, error) {
	return bulge.FromDotBracketComponents(r.Structure, r.Options())
}

// RecordOf returns the record describing g.
func RecordOf(g *bulge.Graph) Record {
	return Record{Name: g.Name(), Sequence: g.Sequence().String(), Structure: g.DotBracket()}
}

// ReadFASTA parses every record in r. A file holding a bare structure (and
// optionally a sequence line before it) without a '>' header is a single
// unnamed record.
func ReadFASTA(r io.Reader) ([]Record, error) {
	var (
		out   []Record
		name  string
		lines []string
		open  bool
	)
	flush := func() error {
		if !open {
			return nil
		}
		if len(lines) == 0 {
			return errors.New(errors.ErrCodeInvalidFormat, "record %q has no structure", name)
		}
		structure := strings.Fields(lines[len(lines)-1])[0]
		out = append(out, Record{
			Name:      name,
			Sequence:  strings.Join(lines[:len(lines)-1], ""),
			Structure: structure,
		})
		name, lines, open = "", nil, false
		return nil
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "", strings.HasPrefix(line, "#"), strings.HasPrefix(line, ";"):
			continue
		case strings.HasPrefix(line, ">"):
			if err := flush(); err != nil {
				return nil, err
			}
			name, open = strings.TrimSpace(line[1:]), true
		default:
			open = true
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read")
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "no records")
	}
	return out, nil
}

// WriteFASTA writes records in the format read by [ReadFASTA]. Sequences
// made only of unknown residues are omitted.
func WriteFASTA(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		fmt.Fprintf(bw, ">%s\n", r.Name)
		if r.Sequence != "" && strings.Trim(r.Sequence, "N&") != "" {
			fmt.Fprintln(bw, r.Sequence)
		}
		fmt.Fprintln(bw, r.Structure)
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write")
	}
	return nil
}
