package bulge

import (
	"slices"
	"strings"

	"github.com/matzehuels/rnagraph/pkg/errors"
	"github.com/matzehuels/rnagraph/pkg/pairs"
)

func (g *Graph) valid(id ElementID) bool { return id >= 0 && int(id) < len(g.nodes) }

func (g *Graph) ids(xs []int) []ElementID {
	out := make([]ElementID, len(xs))
	for i, x := range xs {
		out[i] = ElementID(x)
	}
	return out
}

// NumElements returns the number of elements.
func (g *Graph) NumElements() int { return len(g.nodes) }

// Element returns the element with the given ID.
func (g *Graph) Element(id ElementID) (Element, error) {
	if !g.valid(id) {
		return Element{}, errors.NotFound("element %d does not exist", id)
	}
	nd := g.nodes[id]
	return Element{ID: id, Kind: nd.kind, Number: nd.num, Define: slices.Clone(nd.define)}, nil
}

// Elements returns all elements in ID order.
func (g *Graph) Elements() []Element {
	out := make([]Element, len(g.nodes))
	for i := range g.nodes {
		out[i], _ = g.Element(ElementID(i))
	}
	return out
}

// Lookup resolves an element name such as "m2".
func (g *Graph) Lookup(name string) (ElementID, error) {
	id, ok := g.byName[name]
	if !ok {
		return 0, errors.NotFound("no element named %q", name)
	}
	return id, nil
}

// NameOf returns the name of id, or "" if id is invalid.
func (g *Graph) NameOf(id ElementID) string {
	if !g.valid(id) {
		return ""
	}
	return g.label(int(id))
}

// KindOf returns the kind of id.
func (g *Graph) KindOf(id ElementID) Kind {
	if !g.valid(id) {
		return -1
	}
	return g.nodes[id].kind
}

// ElementsOf returns the elements of one kind in number order.
func (g *Graph) ElementsOf(k Kind) []ElementID {
	var out []ElementID
	for i, nd := range g.nodes {
		if nd.kind == k {
			out = append(out, ElementID(i))
		}
	}
	return out
}

// Neighbors returns the elements adjacent to id in ID order.
func (g *Graph) Neighbors(id ElementID) []ElementID {
	if !g.valid(id) {
		return nil
	}
	return g.ids(g.neighbors(int(id)))
}

// Connections returns the elements adjacent to id ordered by where each
// begins along the backbone, counting the flanking position so that
// zero-length neighbours sort between the stems they join.
func (g *Graph) Connections(id ElementID) []ElementID {
	if !g.valid(id) {
		return nil
	}
	return g.ids(g.connections(int(id)))
}

// Connected reports whether a and b are adjacent.
func (g *Graph) Connected(a, b ElementID) bool {
	if !g.valid(a) || !g.valid(b) {
		return false
	}
	_, ok := g.nodes[a].edges[int(b)]
	return ok
}

// SidesPlus returns which corner of stem (0..3 for a, b, c, d) touches
// elem, and which index into elem's define touches the stem. For a
// zero-length elem the index is 0 when the stem precedes it and 1 when the
// stem follows it.
func (g *Graph) SidesPlus(stem, elem ElementID) (corner, end int, err error) {
	if !g.valid(stem) || !g.valid(elem) {
		return 0, 0, errors.NotFound("element %d or %d does not exist", stem, elem)
	}
	return g.sidesPlus(int(stem), int(elem))
}

// Sides returns the end of stem (0 for the a/d end, 1 for the b/c end)
// next to elem, followed by the opposite end.
func (g *Graph) Sides(stem, elem ElementID) (near, far int, err error) {
	corner, _, err := g.SidesPlus(stem, elem)
	if err != nil {
		return 0, 0, err
	}
	if corner == 0 || corner == 3 {
		return 0, 1, nil
	}
	return 1, 0, nil
}

// ElementLength returns the number of positions elem covers; a stem counts
// one strand.
func (g *Graph) ElementLength(id ElementID) int {
	if !g.valid(id) {
		return 0
	}
	return g.elementLength(int(id))
}

// StemLength returns the number of base pairs in a stem.
func (g *Graph) StemLength(id ElementID) (int, error) {
	if !g.valid(id) || g.nodes[id].kind != Stem {
		return 0, errors.NotFound("element %d is not a stem", id)
	}
	return g.elementLength(int(id)), nil
}

// MultiloopSentinel is the second dimension reported for multiloop
// segments, which have a single strand.
const MultiloopSentinel = 1000

// Dimensions returns the size of an element: base pairs on both strands of
// a stem, the two strand lengths of an interior loop (outer strand first),
// (length, MultiloopSentinel) for multiloop segments and (length, 1) for
// hairpins and overhangs.
func (g *Graph) Dimensions(id ElementID) (int, int) {
	if !g.valid(id) {
		return 0, 0
	}
	i := int(id)
	nd := g.nodes[i]
	switch nd.kind {
	case Stem:
		l := g.elementLength(i)
		return l, l
	case Interior:
		stems := g.stemsOf(i)
		if len(stems) != 2 {
			return 0, 0
		}
		s1, s2 := g.nodes[stems[0]].define, g.nodes[stems[1]].define
		return s2[0] - s1[1] - 1, s1[2] - s2[3] - 1
	case Multiloop:
		return g.elementLength(i), MultiloopSentinel
	}
	return g.elementLength(i), 1
}

// ElementAt returns the element covering a position.
func (g *Graph) ElementAt(pos int) (ElementID, error) {
	i, err := g.elementAt(pos)
	return ElementID(i), err
}

// DefineA returns the define of id extended by one flanking position on
// each side of every strand (not across breaks or past the ends). For a
// zero-length element it returns the two positions it sits between.
func (g *Graph) DefineA(id ElementID) []int {
	if !g.valid(id) {
		return nil
	}
	return g.defineA(int(id))
}

// Ranges returns the inclusive strands of id.
func (g *Graph) Ranges(id ElementID) [][2]int {
	if !g.valid(id) {
		return nil
	}
	d := g.nodes[id].define
	out := make([][2]int, 0, len(d)/2)
	for k := 0; k+1 < len(d); k += 2 {
		out = append(out, [2]int{d[k], d[k+1]})
	}
	return out
}

// Residues returns every position covered by id in ascending order.
func (g *Graph) Residues(id ElementID) []int {
	var out []int
	for _, r := range g.Ranges(id) {
		for p := r[0]; p <= r[1]; p++ {
			out = append(out, p)
		}
	}
	return out
}

// PairingPartner returns the partner of pos, or 0 if it is unpaired.
func (g *Graph) PairingPartner(pos int) (int, error) {
	return g.table.Partner(pos)
}

// StemPairs returns the base pairs of a stem, outermost first.
func (g *Graph) StemPairs(id ElementID) ([]pairs.Pair, error) {
	if _, err := g.StemLength(id); err != nil {
		return nil, err
	}
	d := g.nodes[id].define
	out := make([]pairs.Pair, 0, d[1]-d[0]+1)
	for k := 0; k <= d[1]-d[0]; k++ {
		out = append(out, pairs.Pair{I: d[0] + k, J: d[3] - k})
	}
	return out, nil
}

// Backbone returns the elements met walking 5' to 3', one entry per
// contiguous visit. Stems appear once per strand; zero-length elements
// appear between the stems they join.
func (g *Graph) Backbone() []ElementID {
	zeroAt := make(map[int]int)
	for i, nd := range g.nodes {
		if nd.zero() {
			zeroAt[nd.zl[0]] = i
		}
	}
	var out []ElementID
	prev := -1
	for p := 1; p <= g.n; p++ {
		cur, err := g.elementAt(p)
		if err != nil {
			continue
		}
		if cur != prev {
			out = append(out, ElementID(cur))
			prev = cur
		}
		if z, ok := zeroAt[p]; ok {
			out = append(out, ElementID(z))
			prev = z
		}
	}
	return out
}

// DotBracket renders the pairing with '&' at every break.
func (g *Graph) DotBracket() string {
	return g.table.DotBracketWithBreaks(g.breaks)
}

// ElementString returns one kind letter per position, e.g. "ffsshhsstt".
func (g *Graph) ElementString() string {
	var b strings.Builder
	for p := 1; p <= g.n; p++ {
		i, err := g.elementAt(p)
		if err != nil {
			b.WriteByte('?')
			continue
		}
		b.WriteByte(g.nodes[i].kind.Letter())
	}
	return b.String()
}

// ElementNumbers returns the number of the element covering each position;
// index 0 is unused.
func (g *Graph) ElementNumbers() []int {
	out := make([]int, g.n+1)
	for p := 1; p <= g.n; p++ {
		if i, err := g.elementAt(p); err == nil {
			out[p] = g.nodes[i].num
		}
	}
	return out
}
