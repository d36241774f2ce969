// Package pairs converts between the three representations of base pairing
// used by rnagraph: dot-bracket strings, (position, partner) tuples and
// positional pair tables.
//
// A [Table] is indexed by 1-based position. Index 0 holds the sequence
// length, so a table for a structure of length n has n+1 entries:
//
//	t, breaks, _ := pairs.ParseDotBracket("((..))&((..))")
//	t.Len()            // 12
//	t[1], t[6]         // 6, 1
//	breaks             // [6]
//	t.DotBracket()     // "((..))((..))"
//
// Pseudoknots are written with additional bracket families: "[]", "{}",
// "<>" and then letter pairs "Aa" to "Zz". When a table is turned back into
// dot-bracket the family of every pair is re-derived: each pair, in order of
// its opening position, takes the first family in which it crosses no pair
// already assigned.
package pairs

import (
	"slices"
	"strings"

	"github.com/matzehuels/rnagraph/pkg/errors"
)

// Unpaired is the partner value of a position without a base pair.
const Unpaired = 0

// Tuple is one entry of a pair list: a position and its partner, or
// [Unpaired].
type Tuple struct {
	Pos     int
	Partner int
}

// Pair is a base pair with I < J.
type Pair struct {
	I, J int
}

// NewPair returns the pair of i and j ordered so that I < J.
func NewPair(i, j int) Pair {
	if i > j {
		i, j = j, i
	}
	return Pair{I: i, J: j}
}

// Crosses reports whether p and q are pseudoknotted with respect to each
// other, i.e. exactly one end of q lies strictly inside p.
func (p Pair) Crosses(q Pair) bool {
	return (p.I < q.I && q.I < p.J && p.J < q.J) || (q.I < p.I && p.I < q.J && q.J < p.J)
}

// Table is a positional pair table. t[0] is the length, t[i] the partner of
// position i or [Unpaired].
type Table []int

// NewTable returns an all-unpaired table for n positions.
func NewTable(n int) Table {
	t := make(Table, n+1)
	t[0] = n
	return t
}

// Len returns the number of positions.
func (t Table) Len() int {
	if len(t) == 0 {
		return 0
	}
	return t[0]
}

// Partner returns the partner of position i, or [Unpaired].
func (t Table) Partner(i int) (int, error) {
	if i < 1 || i > t.Len() {
		return 0, errors.NotFound("position %d outside structure of length %d", i, t.Len())
	}
	return t[i], nil
}

// Clone returns an independent copy of t.
func (t Table) Clone() Table { return slices.Clone(t) }

// Validate checks that the table is symmetric and in range.
func (t Table) Validate() error {
	if len(t) == 0 || t[0] != len(t)-1 {
		return errors.Structure("pair table length header does not match its size")
	}
	n := t.Len()
	for i := 1; i <= n; i++ {
		j := t[i]
		if j == Unpaired {
			continue
		}
		if j < 1 || j > n {
			return errors.Structure("position %d pairs with %d outside 1..%d", i, j, n)
		}
		if j == i {
			return errors.Structure("position %d pairs with itself", i)
		}
		if t[j] != i {
			return errors.Structure("contradictory pairing: %d-%d but %d-%d", i, j, j, t[j])
		}
	}
	return nil
}

// Tuples returns one tuple per position, sorted by position. Paired
// positions appear in both directions across the list.
func (t Table) Tuples() []Tuple {
	out := make([]Tuple, 0, t.Len())
	for i := 1; i <= t.Len(); i++ {
		out = append(out, Tuple{Pos: i, Partner: t[i]})
	}
	return out
}

// Pairs returns every base pair once, sorted by I.
func (t Table) Pairs() []Pair {
	var out []Pair
	for i := 1; i <= t.Len(); i++ {
		if j := t[i]; j > i {
			out = append(out, Pair{I: i, J: j})
		}
	}
	return out
}

// Without returns a copy of t with the given pairs set unpaired. Pairs not
// present in t are ignored.
func (t Table) Without(remove []Pair) Table {
	out := t.Clone()
	for _, p := range remove {
		if p.I < 1 || p.J > out.Len() {
			continue
		}
		if out[p.I] == p.J && out[p.J] == p.I {
			out[p.I], out[p.J] = Unpaired, Unpaired
		}
	}
	return out
}

// FromTuples builds a table from tuples in any order. The length is the
// largest position or partner mentioned. A pair may be given in one or both
// directions; contradictory claims are a construction error.
func FromTuples(tuples []Tuple) (Table, error) {
	n := 0
	for _, tp := range tuples {
		if tp.Pos < 1 || tp.Partner < 0 {
			return nil, errors.Structure("invalid tuple (%d, %d)", tp.Pos, tp.Partner)
		}
		n = max(n, tp.Pos, tp.Partner)
	}
	if n == 0 {
		return nil, errors.Structure("no positions given")
	}
	t := NewTable(n)
	for _, tp := range tuples {
		if tp.Partner == Unpaired {
			if t[tp.Pos] != Unpaired {
				return nil, errors.Structure("position %d listed as both paired with %d and unpaired", tp.Pos, t[tp.Pos])
			}
			continue
		}
		if err := t.setPair(tp.Pos, tp.Partner); err != nil {
			return nil, err
		}
	}
	// An explicit unpaired claim can precede the pair that contradicts it.
	for _, tp := range tuples {
		if tp.Partner == Unpaired && t[tp.Pos] != Unpaired {
			return nil, errors.Structure("position %d listed as both paired with %d and unpaired", tp.Pos, t[tp.Pos])
		}
	}
	return t, nil
}

// FromPairs builds a table of length n from base pairs.
func FromPairs(n int, ps []Pair) (Table, error) {
	if n <= 0 {
		return nil, errors.Structure("structure length must be positive, got %d", n)
	}
	t := NewTable(n)
	for _, p := range ps {
		if p.I < 1 || p.J > n || p.I >= p.J {
			return nil, errors.Structure("invalid pair (%d, %d) for length %d", p.I, p.J, n)
		}
		if err := t.setPair(p.I, p.J); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t Table) setPair(i, j int) error {
	if i == j {
		return errors.Structure("position %d pairs with itself", i)
	}
	if t[i] == j && t[j] == i {
		return nil
	}
	if t[i] != Unpaired {
		return errors.Structure("position %d pairs with both %d and %d", i, t[i], j)
	}
	if t[j] != Unpaired {
		return errors.Structure("position %d pairs with both %d and %d", j, t[j], i)
	}
	t[i], t[j] = j, i
	return nil
}

// bracket families in order of preference.
var families = func() [][2]byte {
	out := [][2]byte{{'(', ')'}, {'[', ']'}, {'{', '}'}, {'<', '>'}}
	for c := byte('A'); c <= 'Z'; c++ {
		out = append(out, [2]byte{c, c + ('a' - 'A')})
	}
	return out
}()

func familyOf(c byte) (idx int, open bool, ok bool) {
	for i, f := range families {
		switch c {
		case f[0]:
			return i, true, true
		case f[1]:
			return i, false, true
		}
	}
	return 0, false, false
}

// ParseDotBracket parses a dot-bracket string. It returns the pair table and
// the backbone breaks introduced by '&' separators, as positions after which
// a chain ends.
func ParseDotBracket(s string) (Table, []int, error) {
	if err := errors.ValidateStructureAlphabet(s); err != nil {
		return nil, nil, err
	}
	n := len(s) - strings.Count(s, "&")
	t := NewTable(n)
	stacks := make([][]int, len(families))
	var breaks []int
	pos := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '&' {
			if pos == 0 || pos == n || (len(breaks) > 0 && breaks[len(breaks)-1] == pos) {
				return nil, nil, errors.Structure("chain separator at column %d does not separate two chains", i+1)
			}
			breaks = append(breaks, pos)
			continue
		}
		pos++
		if c == '.' {
			continue
		}
		f, open, ok := familyOf(c)
		if !ok {
			return nil, nil, errors.Structure("invalid character %q at column %d", c, i+1)
		}
		if open {
			stacks[f] = append(stacks[f], pos)
			continue
		}
		st := stacks[f]
		if len(st) == 0 {
			return nil, nil, errors.Structure("unmatched %q at position %d", c, pos)
		}
		j := st[len(st)-1]
		stacks[f] = st[:len(st)-1]
		t[j], t[pos] = pos, j
	}
	for f, st := range stacks {
		if len(st) > 0 {
			return nil, nil, errors.Structure("unmatched %q at position %d", families[f][0], st[len(st)-1])
		}
	}
	return t, breaks, nil
}

// DotBracket renders t without chain separators.
func (t Table) DotBracket() string {
	return t.DotBracketWithBreaks(nil)
}

// DotBracketWithBreaks renders t and inserts '&' after every break position.
func (t Table) DotBracketWithBreaks(breaks []int) string {
	n := t.Len()
	out := make([]byte, n+1)
	for i := range out {
		out[i] = '.'
	}
	assigned := make([][]Pair, 0, 4)
	for _, p := range t.Pairs() {
		f := 0
		for ; f < len(assigned); f++ {
			if !crossesAny(p, assigned[f]) {
				break
			}
		}
		if f == len(assigned) {
			assigned = append(assigned, nil)
		}
		if f >= len(families) {
			// Out of symbols; leave the pair unrendered rather than emit an
			// ambiguous string.
			continue
		}
		assigned[f] = append(assigned[f], p)
		out[p.I], out[p.J] = families[f][0], families[f][1]
	}
	var b strings.Builder
	bi := 0
	for i := 1; i <= n; i++ {
		b.WriteByte(out[i])
		if bi < len(breaks) && breaks[bi] == i {
			b.WriteByte('&')
			bi++
		}
	}
	return b.String()
}

func crossesAny(p Pair, ps []Pair) bool {
	for _, q := range ps {
		if p.Crosses(q) {
			return true
		}
	}
	return false
}

// IsPseudoknotted reports whether any two pairs of t cross.
func (t Table) IsPseudoknotted() bool {
	ps := t.Pairs()
	for i := range ps {
		if crossesAny(ps[i], ps[i+1:]) {
			return true
		}
	}
	return false
}
