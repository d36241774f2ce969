// Package sequence models a nucleotide sequence that may consist of several
// chains joined for joint ("cofold") analysis.
//
// Positions are 1-based. A backbone break after position p means that p is
// the last residue of one chain and p+1 the first residue of the next. In
// text form breaks are written as '&':
//
//	s, _ := sequence.Parse("GGAC&GUCC")
//	s.Len()           // 8
//	s.Breaks()        // [4]
//	s.IsBreakAfter(4) // true
//	s.String()        // "GGAC&GUCC"
//
// A Sequence is immutable after construction and safe for concurrent reads.
package sequence

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/rnagraph/pkg/errors"
)

// Separator is the chain separator used in sequence and dot-bracket strings.
const Separator = '&'

// Sequence is an ordered, 1-based collection of residues split into chains
// by zero or more backbone breaks.
type Sequence struct {
	residues string
	breaks   []int
}

// New creates a sequence from residues without separators and a list of
// break positions. Breaks must be strictly increasing and lie in
// [1, len(residues)-1].
func New(residues string, breaks []int) (*Sequence, error) {
	if residues == "" {
		return nil, errors.Structure("sequence cannot be empty")
	}
	if strings.ContainsRune(residues, Separator) {
		return nil, errors.Structure("residues must not contain %q; use Parse", Separator)
	}
	if err := validateBreaks(breaks, len(residues)); err != nil {
		return nil, err
	}
	return &Sequence{residues: strings.ToUpper(residues), breaks: slices.Clone(breaks)}, nil
}

// Parse creates a sequence from a string where '&' marks backbone breaks.
func Parse(s string) (*Sequence, error) {
	var b strings.Builder
	var breaks []int
	for _, r := range s {
		if r == Separator {
			breaks = append(breaks, b.Len())
			continue
		}
		b.WriteRune(r)
	}
	return New(b.String(), breaks)
}

// Unknown returns a sequence of n 'N' residues with the given breaks. It is
// used when a structure is supplied without a sequence.
func Unknown(n int, breaks []int) (*Sequence, error) {
	if n <= 0 {
		return nil, errors.Structure("sequence length must be positive, got %d", n)
	}
	return New(strings.Repeat("N", n), breaks)
}

func validateBreaks(breaks []int, n int) error {
	prev := 0
	for _, b := range breaks {
		if b <= prev {
			if b == prev && b != 0 {
				return errors.Structure("empty chain at break %d", b)
			}
			return errors.Structure("backbone breaks must be strictly increasing and positive, got %v", breaks)
		}
		if b >= n {
			return errors.Structure("backbone break %d is not interior to a sequence of length %d", b, n)
		}
		prev = b
	}
	return nil
}

// Len returns the number of residues, excluding break markers.
func (s *Sequence) Len() int { return len(s.residues) }

// Residues returns the residues without break markers.
func (s *Sequence) Residues() string { return s.residues }

// At returns the residue at 1-based position i.
func (s *Sequence) At(i int) (byte, error) {
	if i < 1 || i > len(s.residues) {
		return 0, errors.NotFound("position %d outside sequence of length %d", i, len(s.residues))
	}
	return s.residues[i-1], nil
}

// Slice returns residues from..to (1-based, inclusive) without breaks.
func (s *Sequence) Slice(from, to int) (string, error) {
	if from < 1 || to > len(s.residues) || from > to+1 {
		return "", errors.NotFound("range %d..%d outside sequence of length %d", from, to, len(s.residues))
	}
	return s.residues[from-1 : to], nil
}

// Breaks returns a copy of the break positions.
func (s *Sequence) Breaks() []int { return slices.Clone(s.breaks) }

// IsBreakAfter reports whether the backbone is broken between i and i+1.
func (s *Sequence) IsBreakAfter(i int) bool {
	_, found := slices.BinarySearch(s.breaks, i)
	return found
}

// ChainCount returns the number of chains.
func (s *Sequence) ChainCount() int { return len(s.breaks) + 1 }

// Chains returns the 1-based inclusive [start, end] range of every chain.
func (s *Sequence) Chains() [][2]int {
	out := make([][2]int, 0, len(s.breaks)+1)
	start := 1
	for _, b := range s.breaks {
		out = append(out, [2]int{start, b})
		start = b + 1
	}
	return append(out, [2]int{start, len(s.residues)})
}

// ChainOf returns the 0-based index of the chain containing position i.
func (s *Sequence) ChainOf(i int) (int, error) {
	if i < 1 || i > len(s.residues) {
		return 0, errors.NotFound("position %d outside sequence of length %d", i, len(s.residues))
	}
	idx, _ := slices.BinarySearch(s.breaks, i)
	return idx, nil
}

// String returns the residues with '&' at every break.
func (s *Sequence) String() string {
	if len(s.breaks) == 0 {
		return s.residues
	}
	var b strings.Builder
	prev := 0
	for _, br := range s.breaks {
		b.WriteString(s.residues[prev:br])
		b.WriteRune(Separator)
		prev = br
	}
	b.WriteString(s.residues[prev:])
	return b.String()
}

// Sub extracts the given chains (0-based, ascending) and concatenates them
// into a new sequence. The returned mapping translates new positions to
// positions in s (index 0 unused).
func (s *Sequence) Sub(chains []int) (*Sequence, []int, error) {
	all := s.Chains()
	var b strings.Builder
	var breaks []int
	mapping := []int{0}
	for i, c := range chains {
		if c < 0 || c >= len(all) {
			return nil, nil, errors.NotFound("chain %d does not exist", c)
		}
		if i > 0 {
			if c <= chains[i-1] {
				return nil, nil, errors.New(errors.ErrCodeInvalidInput, "chains must be ascending, got %v", chains)
			}
			breaks = append(breaks, b.Len())
		}
		r := all[c]
		b.WriteString(s.residues[r[0]-1 : r[1]])
		for p := r[0]; p <= r[1]; p++ {
			mapping = append(mapping, p)
		}
	}
	sub, err := New(b.String(), breaks)
	if err != nil {
		return nil, nil, err
	}
	return sub, mapping, nil
}

// ResidueID names one residue by chain and 1-based position in the chain.
type ResidueID struct {
	Chain string
	Num   int
}

// String formats the id as "A:12".
func (r ResidueID) String() string { return r.Chain + ":" + strconv.Itoa(r.Num) }

// ChainName returns the conventional name of the i-th chain: A..Z, then
// "chain27", "chain28" and so on.
func ChainName(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprintf("chain%d", i+1)
}

// ResidueIDs returns one ResidueID per position, numbering residues within
// each chain from 1.
func (s *Sequence) ResidueIDs() []ResidueID {
	out := make([]ResidueID, 0, len(s.residues))
	for ci, c := range s.Chains() {
		name := ChainName(ci)
		for p := c[0]; p <= c[1]; p++ {
			out = append(out, ResidueID{Chain: name, Num: p - c[0] + 1})
		}
	}
	return out
}

// ParseResidueID parses "A:12".
func ParseResidueID(s string) (ResidueID, error) {
	chain, num, ok := strings.Cut(s, ":")
	if !ok || chain == "" {
		return ResidueID{}, errors.New(errors.ErrCodeInvalidFormat, "residue id %q is not of the form CHAIN:NUM", s)
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return ResidueID{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "residue id %q", s)
	}
	return ResidueID{Chain: chain, Num: n}, nil
}

// BreaksFromResidueIDs derives break positions from a list of residue ids:
// a break is placed wherever the chain name changes.
func BreaksFromResidueIDs(ids []ResidueID) []int {
	var breaks []int
	for i := 1; i < len(ids); i++ {
		if ids[i].Chain != ids[i-1].Chain {
			breaks = append(breaks, i)
		}
	}
	return breaks
}
