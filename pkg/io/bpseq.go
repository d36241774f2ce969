package io

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/rnagraph/pkg/bulge"
	"github.com/matzehuels/rnagraph/pkg/errors"
	"github.com/matzehuels/rnagraph/pkg/pairs"
)

// BPSeq is a parsed bpseq file: one residue per line with its 1-based
// position and partner (0 when unpaired).
type BPSeq struct {
	Sequence string
	Table    pairs.Table
}

// ReadBPSeq parses a bpseq file. Positions must be consecutive from 1.
// Lines starting with '#' and header lines that do not begin with a number
// (as written by several databases) are skipped. A pair reported
// inconsistently by its two positions is a construction error.
func ReadBPSeq(r io.Reader) (*BPSeq, error) {
	var (
		seq    strings.Builder
		tuples []pairs.Tuple
	)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		pos, err := strconv.Atoi(fields[0])
		if err != nil {
			if len(tuples) == 0 {
				continue
			}
			return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: position %q is not a number", line, fields[0])
		}
		if len(fields) < 3 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: want position, residue and partner", line)
		}
		if pos != len(tuples)+1 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: position %d follows %d", line, pos, len(tuples))
		}
		partner, err := strconv.Atoi(fields[2])
		if err != nil || partner < 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: invalid partner %q", line, fields[2])
		}
		seq.WriteString(fields[1])
		tuples = append(tuples, pairs.Tuple{Pos: pos, Partner: partner})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read")
	}
	if len(tuples) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "no residues")
	}
	for _, t := range tuples {
		if t.Partner > len(tuples) {
			return nil, errors.Structure("position %d pairs with %d outside 1..%d", t.Pos, t.Partner, len(tuples))
		}
	}
	t, err := pairs.FromTuples(tuples)
	if err != nil {
		return nil, err
	}
	return &BPSeq{Sequence: seq.String(), Table: t}, nil
}

// Graph builds the element graph of b.
func (b *BPSeq) Graph(name string) (*bulge.Graph, error) {
	return bulge.FromPairTable(b.Table, nil, bulge.Options{Name: name, Sequence: b.Sequence})
}

// WriteBPSeq writes g as bpseq. The format has no notion of chains, so a
// graph with backbone breaks is rejected.
func WriteBPSeq(g *bulge.Graph, w io.Writer) error {
	if len(g.Breaks()) > 0 {
		return errors.New(errors.ErrCodeUnsupported, "bpseq cannot represent backbone breaks")
	}
	res := g.Sequence().Residues()
	bw := bufio.NewWriter(w)
	for p := 1; p <= g.Len(); p++ {
		partner, _ := g.PairingPartner(p)
		fmt.Fprintf(bw, "%d %c %d\n", p, res[p-1], partner)
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write")
	}
	return nil
}
