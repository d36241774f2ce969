package bulge

import (
	"slices"

	"github.com/matzehuels/rnagraph/pkg/errors"
)

// Connection types returned by [Graph.ConnectionType] for overhangs and
// hairpins. Loops between two stems get a signed value in -5..5 derived
// from the corners they touch.
const (
	ConnFivePrime  = 6
	ConnThreePrime = 7
	ConnHairpin    = 8
)

// connTypes maps the corners of the first and second stem touching a loop
// to its connection type. A negative type is the same connection walked in
// the opposite direction.
var connTypes = map[[2]int]int{
	{1, 0}: 1, {0, 1}: -1,
	{2, 3}: 2, {3, 2}: -2,
	{2, 0}: 3, {0, 2}: -3,
	{3, 0}: 4, {0, 3}: -4,
	{2, 1}: 5, {1, 2}: -5,
}

// ConnectionType classifies how elem joins the two stems in conns, taken in
// that order.
func (g *Graph) ConnectionType(elem ElementID, conns []ElementID) (int, error) {
	if !g.valid(elem) {
		return 0, errors.NotFound("element %d does not exist", elem)
	}
	switch g.nodes[elem].kind {
	case FivePrime:
		return ConnFivePrime, nil
	case ThreePrime:
		return ConnThreePrime, nil
	case Hairpin:
		return ConnHairpin, nil
	case Stem:
		return 0, errors.Integrity("%s is a stem", g.label(int(elem)))
	}
	if len(conns) != 2 {
		return 0, errors.Integrity("%s needs two stems, got %d", g.label(int(elem)), len(conns))
	}
	k1, _, err := g.SidesPlus(conns[0], elem)
	if err != nil {
		return 0, err
	}
	k2, _, err := g.SidesPlus(conns[1], elem)
	if err != nil {
		return 0, err
	}
	t, ok := connTypes[[2]int{k1, k2}]
	if !ok {
		return 0, errors.Integrity("%s touches corners %d and %d", g.label(int(elem)), k1, k2)
	}
	return t, nil
}

// AngleType is the connection type of elem with its stems in connection
// order.
func (g *Graph) AngleType(elem ElementID) (int, error) {
	return g.ConnectionType(elem, g.Connections(elem))
}

// NextLoopSegment returns the multiloop or three-prime element reached by
// leaving elem at its 3' end and walking around the stem found there. It
// reports false at chain ends, at breaks, and for elements that are not
// multiloop segments or five-prime overhangs.
func (g *Graph) NextLoopSegment(elem ElementID) (ElementID, bool) {
	if !g.valid(elem) {
		return 0, false
	}
	i := int(elem)
	if k := g.nodes[i].kind; k != Multiloop && k != FivePrime {
		return 0, false
	}
	da := g.defineA(i)
	flank := da[len(da)-1]
	for _, s := range g.neighbors(i) {
		sd := g.nodes[s].define
		var exit int
		switch flank {
		case sd[0]:
			exit = sd[3]
		case sd[2]:
			exit = sd[1]
		default:
			continue
		}
		for _, n := range g.neighbors(s) {
			nk := g.nodes[n].kind
			if (nk == Multiloop || nk == ThreePrime) && g.defineA(n)[0] == exit {
				return ElementID(n), true
			}
		}
		return 0, false
	}
	return 0, false
}

// Loops groups the multiloop segments and overhangs into the loops they
// form. Open loops start at the element without a predecessor; closed
// loops start at the element with the lowest flanked define. Loops are
// ordered by their first element's position.
func (g *Graph) Loops() [][]ElementID {
	var members []int
	next := make(map[int]int)
	hasPrev := make(map[int]bool)
	for i, nd := range g.nodes {
		if nd.kind != Multiloop && nd.kind != FivePrime && nd.kind != ThreePrime {
			continue
		}
		members = append(members, i)
		if n, ok := g.NextLoopSegment(ElementID(i)); ok {
			next[i] = int(n)
			hasPrev[int(n)] = true
		}
	}

	seen := make(map[int]bool)
	var out [][]ElementID
	walk := func(start int) []ElementID {
		var loop []ElementID
		for cur, ok := start, true; ok && !seen[cur]; cur, ok = next[cur] {
			seen[cur] = true
			loop = append(loop, ElementID(cur))
		}
		return loop
	}
	for _, i := range members {
		if !hasPrev[i] && !seen[i] {
			out = append(out, walk(i))
		}
	}
	for _, i := range members {
		if seen[i] {
			continue
		}
		loop := walk(i)
		first := 0
		for k := range loop {
			if slices.Compare(g.DefineA(loop[k]), g.DefineA(loop[first])) < 0 {
				first = k
			}
		}
		out = append(out, append(loop[first:], loop[:first]...))
	}
	slices.SortStableFunc(out, func(x, y []ElementID) int {
		return slices.Compare(g.DefineA(x[0]), g.DefineA(y[0]))
	})
	return out
}

// LoopClass is the topology of a loop returned by [Graph.Loops].
type LoopClass int

const (
	// Open loops reach a chain end.
	Open LoopClass = iota
	// Nested loops are ordinary multiloops.
	Nested
	// Pseudoknot loops are closed but cannot be drawn without crossings.
	Pseudoknot
)

func (c LoopClass) String() string {
	switch c {
	case Open:
		return "open"
	case Nested:
		return "nested"
	case Pseudoknot:
		return "pseudoknot"
	}
	return "unknown"
}

// ClassifyLoop decides whether a loop is open, nested or pseudoknotted.
// Loops with an overhang, or that pass a stem an odd number of times, are
// open. A closed loop is nested when it enters exactly one stem from
// outside (type 1), leaves exactly one towards its closing stem (type 2)
// and has no crossing legs (types 3 and 5).
func (g *Graph) ClassifyLoop(loop []ElementID) (LoopClass, error) {
	stemCount := make(map[ElementID]int)
	typeCount := make(map[int]int)
	for _, e := range loop {
		if !g.valid(e) {
			return 0, errors.NotFound("element %d does not exist", e)
		}
		switch g.nodes[e].kind {
		case FivePrime, ThreePrime:
			return Open, nil
		case Multiloop:
		default:
			return 0, errors.New(errors.ErrCodeInvalidInput, "%s is not a loop segment", g.label(int(e)))
		}
		conns := g.Connections(e)
		for _, s := range conns {
			stemCount[s]++
		}
		t, err := g.ConnectionType(e, conns)
		if err != nil {
			return 0, err
		}
		typeCount[abs(t)]++
	}
	for _, c := range stemCount {
		if c%2 != 0 {
			return Open, nil
		}
	}
	if typeCount[1] == 1 && typeCount[2] == 1 && typeCount[3] == 0 && typeCount[5] == 0 {
		return Nested, nil
	}
	return Pseudoknot, nil
}

// IsPseudoknotted reports whether any two base pairs of g cross.
func (g *Graph) IsPseudoknotted() bool {
	return g.table.IsPseudoknotted()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
