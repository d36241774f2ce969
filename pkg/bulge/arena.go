package bulge

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/matzehuels/rnagraph/pkg/errors"
)

// node is the mutable element record used while a graph is built. Frozen
// graphs keep a compacted arena of the same records.
type node struct {
	kind    Kind
	num     int
	define  []int
	zl      [2]int // adjacent positions (p, p+1) of a zero-length element
	weight  int
	edges   map[int]struct{}
	dead    bool
	labeled bool
}

func (n *node) zero() bool { return len(n.define) == 0 }

func (n *node) stem() bool { return n.kind == Stem && n.labeled }

// arena stores elements by dense index and answers the geometric questions
// that construction, cofold splitting and the public query layer share.
type arena struct {
	n      int
	nodes  []*node
	breaks []int // backbone breaks the topology already honours
}

func (a *arena) add(nd *node) int {
	if nd.edges == nil {
		nd.edges = make(map[int]struct{})
	}
	if nd.weight == 0 {
		nd.weight = 1
	}
	a.nodes = append(a.nodes, nd)
	return len(a.nodes) - 1
}

func (a *arena) link(i, j int) {
	a.nodes[i].edges[j] = struct{}{}
	a.nodes[j].edges[i] = struct{}{}
}

func (a *arena) unlink(i, j int) {
	delete(a.nodes[i].edges, j)
	delete(a.nodes[j].edges, i)
}

func (a *arena) kill(i int) {
	for j := range a.nodes[i].edges {
		delete(a.nodes[j].edges, i)
	}
	a.nodes[i].edges = map[int]struct{}{}
	a.nodes[i].dead = true
}

func (a *arena) live() []int {
	out := make([]int, 0, len(a.nodes))
	for i, nd := range a.nodes {
		if !nd.dead {
			out = append(out, i)
		}
	}
	return out
}

// neighbors returns adjacent indices in ascending order.
func (a *arena) neighbors(i int) []int {
	out := make([]int, 0, len(a.nodes[i].edges))
	for j := range a.nodes[i].edges {
		out = append(out, j)
	}
	slices.Sort(out)
	return out
}

func (a *arena) isBreak(p int) bool {
	_, ok := slices.BinarySearch(a.breaks, p)
	return ok
}

func (a *arena) label(i int) string {
	nd := a.nodes[i]
	if !nd.labeled {
		return fmt.Sprintf("b%d", i)
	}
	return elementName(nd.kind, nd.num)
}

// defineA returns the define extended by the flanking position on each side
// of every strand. Flanks are not taken across a break or past the ends. A
// zero-length element returns its two adjacent positions.
func (a *arena) defineA(i int) []int {
	nd := a.nodes[i]
	if nd.stem() {
		return slices.Clone(nd.define)
	}
	if nd.zero() {
		return []int{nd.zl[0], nd.zl[1]}
	}
	out := make([]int, 0, len(nd.define))
	for k := 0; k+1 < len(nd.define); k += 2 {
		lo, hi := nd.define[k], nd.define[k+1]
		if lo > 1 && !a.isBreak(lo-1) {
			lo--
		}
		if hi < a.n && !a.isBreak(hi) {
			hi++
		}
		out = append(out, lo, hi)
	}
	return out
}

// startKey orders neighbors along the backbone so that zero-length elements
// sort between the stems they join.
func (a *arena) startKey(i int) int {
	nd := a.nodes[i]
	if nd.zero() {
		return nd.zl[0]
	}
	return nd.define[0] - 1
}

// connections returns the neighbors of i sorted by where they begin.
func (a *arena) connections(i int) []int {
	out := a.neighbors(i)
	slices.SortStableFunc(out, func(x, y int) int {
		return cmp.Compare(a.startKey(x), a.startKey(y))
	})
	return out
}

// Corners of a stem [a, b, c, d]. Corners 1 and 3 face 3' (the next
// element starts after them), corners 0 and 2 face 5'.
var (
	threePrimeCorners = [2]int{1, 3}
	fivePrimeCorners  = [2]int{0, 2}
)

// sidesPlus returns the stem corner touching elem and the index into elem's
// define (or 0/1 for the adjacent positions of a zero-length element) that
// touches the stem.
func (a *arena) sidesPlus(stem, elem int) (int, int, error) {
	s, e := a.nodes[stem], a.nodes[elem]
	if !s.stem() {
		return 0, 0, errors.Integrity("%s is not a stem", a.label(stem))
	}
	if _, ok := s.edges[elem]; !ok {
		return 0, 0, errors.NotFound("%s is not adjacent to %s", a.label(elem), a.label(stem))
	}
	if e.zero() {
		for _, k := range threePrimeCorners {
			if s.define[k] == e.zl[0] {
				return k, 0, nil
			}
		}
		for _, k := range fivePrimeCorners {
			if s.define[k] == e.zl[1] {
				return k, 1, nil
			}
		}
		return 0, 0, errors.Integrity("zero-length %s at %d-%d does not touch %s", a.label(elem), e.zl[0], e.zl[1], a.label(stem))
	}
	for i := 0; i+1 < len(e.define); i += 2 {
		for _, k := range threePrimeCorners {
			if s.define[k] == e.define[i]-1 {
				return k, i, nil
			}
		}
		for _, k := range fivePrimeCorners {
			if s.define[k] == e.define[i+1]+1 {
				return k, i + 1, nil
			}
		}
	}
	return 0, 0, errors.Integrity("%s %v touches no corner of %s %v", a.label(elem), e.define, a.label(stem), s.define)
}

// elementAt returns the live element whose define contains pos.
func (a *arena) elementAt(pos int) (int, error) {
	if pos < 1 || pos > a.n {
		return 0, errors.NotFound("position %d outside structure of length %d", pos, a.n)
	}
	for i, nd := range a.nodes {
		if nd.dead {
			continue
		}
		for k := 0; k+1 < len(nd.define); k += 2 {
			if nd.define[k] <= pos && pos <= nd.define[k+1] {
				return i, nil
			}
		}
	}
	return 0, errors.Integrity("position %d is not covered by any element", pos)
}

// stemsOf returns the stems adjacent to a loop in connection order.
func (a *arena) stemsOf(loop int) []int {
	var out []int
	for _, j := range a.connections(loop) {
		if a.nodes[j].stem() {
			out = append(out, j)
		}
	}
	return out
}

// elementLength counts the positions an element covers. Stems count one
// strand.
func (a *arena) elementLength(i int) int {
	nd := a.nodes[i]
	if nd.stem() {
		return nd.define[1] - nd.define[0] + 1
	}
	total := 0
	for k := 0; k+1 < len(nd.define); k += 2 {
		total += nd.define[k+1] - nd.define[k] + 1
	}
	return total
}

// interiorStrands returns the two strands of an interior loop between its
// outer stem o and inner stem in as inclusive ranges; an empty strand has
// from == to+1.
func interiorStrands(o, in *node) (fwd, back [2]int) {
	fwd = [2]int{o.define[1] + 1, in.define[0] - 1}
	back = [2]int{in.define[3] + 1, o.define[2] - 1}
	return fwd, back
}
