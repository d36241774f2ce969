package bulge

import (
	"cmp"
	"maps"
	"slices"

	"github.com/matzehuels/rnagraph/pkg/errors"
	"github.com/matzehuels/rnagraph/pkg/pairs"
	"github.com/matzehuels/rnagraph/pkg/sequence"
)

// Graph is an immutable element graph. It is safe for concurrent use.
//
// Derived graphs ([Graph.Without], [Graph.DissolveLengthOneStems],
// [Graph.RemovePseudoknots], [Graph.WithInfo]) are new values; the
// receiver never changes after construction.
type Graph struct {
	arena
	name   string
	seq    *sequence.Sequence
	table  pairs.Table
	infos  []Info
	byName map[string]ElementID
}

// freeze compacts the live elements of src into a Graph with dense IDs in
// canonical order and checks every structural invariant.
func freeze(src *arena, t pairs.Table, seq *sequence.Sequence, name string, infos []Info) (*Graph, error) {
	ids := src.live()
	slices.SortFunc(ids, func(x, y int) int {
		nx, ny := src.nodes[x], src.nodes[y]
		return cmp.Or(cmp.Compare(nx.kind, ny.kind), cmp.Compare(nx.num, ny.num))
	})
	remap := make(map[int]int, len(ids))
	for newID, old := range ids {
		remap[old] = newID
	}

	g := &Graph{
		arena:  arena{n: src.n, breaks: seq.Breaks()},
		name:   name,
		seq:    seq,
		table:  t.Clone(),
		infos:  slices.Clone(infos),
		byName: make(map[string]ElementID, len(ids)),
	}
	for _, old := range ids {
		nd := src.nodes[old]
		cp := &node{
			kind:    nd.kind,
			num:     nd.num,
			define:  slices.Clone(nd.define),
			zl:      nd.zl,
			weight:  nd.weight,
			labeled: true,
			edges:   make(map[int]struct{}, len(nd.edges)),
		}
		for j := range nd.edges {
			cp.edges[remap[j]] = struct{}{}
		}
		g.nodes = append(g.nodes, cp)
		key := elementName(cp.kind, cp.num)
		if _, dup := g.byName[key]; dup {
			return nil, errors.Integrity("duplicate element %s", key)
		}
		g.byName[key] = ElementID(len(g.nodes) - 1)
	}
	if err := g.arena.assignZeroLength(false); err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// assignZeroLength recovers the adjacent positions of zero-length elements
// from the stems they join. Candidate positions p (with p+1) are those where
// one stem's 3'-facing corner meets the other's 5'-facing corner, minus
// backbone breaks and the empty strands of interior loops between the same
// stems. Candidates are matched to the elements in number order. With set
// false the stored positions are only checked against the derived ones.
func (a *arena) assignZeroLength(set bool) error {
	groups := make(map[[2]int][]int)
	for _, i := range a.live() {
		nd := a.nodes[i]
		if nd.stem() || !nd.zero() {
			continue
		}
		stems := a.stemsOf(i)
		switch {
		case nd.kind == Hairpin && len(stems) == 1:
			d := a.nodes[stems[0]].define
			if d[1]+1 != d[2] {
				return errors.Integrity("zero-length %s inside stem %s with unpaired nucleotides", a.label(i), a.label(stems[0]))
			}
			if err := a.setZeroLength(i, [2]int{d[1], d[2]}, set); err != nil {
				return err
			}
		case len(stems) == 2:
			key := [2]int{min(stems[0], stems[1]), max(stems[0], stems[1])}
			groups[key] = append(groups[key], i)
		default:
			return errors.Integrity("zero-length %s joins %d stems", a.label(i), len(stems))
		}
	}

	for _, key := range slices.SortedFunc(maps.Keys(groups), func(x, y [2]int) int {
		return cmp.Or(cmp.Compare(x[0], y[0]), cmp.Compare(x[1], y[1]))
	}) {
		elems := groups[key]
		slices.SortFunc(elems, func(x, y int) int {
			nx, ny := a.nodes[x], a.nodes[y]
			return cmp.Or(cmp.Compare(nx.kind, ny.kind), cmp.Compare(nx.num, ny.num))
		})
		cands := a.zeroLengthCandidates(key[0], key[1])
		if len(cands) != len(elems) {
			return errors.Integrity("%d zero-length elements between %s and %s but %d adjacent corners",
				len(elems), a.label(key[0]), a.label(key[1]), len(cands))
		}
		for k, i := range elems {
			if err := a.setZeroLength(i, [2]int{cands[k], cands[k] + 1}, set); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *arena) setZeroLength(i int, zl [2]int, set bool) error {
	if set {
		a.nodes[i].zl = zl
		return nil
	}
	if a.nodes[i].zl != zl {
		return errors.Integrity("zero-length %s sits at %v, expected %v", a.label(i), a.nodes[i].zl, zl)
	}
	return nil
}

func (a *arena) zeroLengthCandidates(x, y int) []int {
	excluded := make(map[int]bool)
	for _, i := range a.live() {
		nd := a.nodes[i]
		if nd.kind != Interior {
			continue
		}
		stems := a.stemsOf(i)
		if len(stems) != 2 || !((stems[0] == x && stems[1] == y) || (stems[0] == y && stems[1] == x)) {
			continue
		}
		fwd, back := interiorStrands(a.nodes[stems[0]], a.nodes[stems[1]])
		if fwd[0] > fwd[1] {
			excluded[fwd[1]] = true
		}
		if back[0] > back[1] {
			excluded[back[1]] = true
		}
	}

	var out []int
	for _, pair := range [][2]int{{x, y}, {y, x}} {
		s1, s2 := a.nodes[pair[0]].define, a.nodes[pair[1]].define
		for _, k1 := range threePrimeCorners {
			p := s1[k1]
			for _, k2 := range fivePrimeCorners {
				if s2[k2] == p+1 && !excluded[p] && !a.isBreak(p) {
					out = append(out, p)
				}
			}
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Name returns the structure name.
func (g *Graph) Name() string { return g.name }

// Len returns the number of positions.
func (g *Graph) Len() int { return g.n }

// Sequence returns the residues and chain breaks.
func (g *Graph) Sequence() *sequence.Sequence { return g.seq }

// Breaks returns the backbone breaks.
func (g *Graph) Breaks() []int { return slices.Clone(g.breaks) }

// PairTable returns a copy of the pair table.
func (g *Graph) PairTable() pairs.Table { return g.table.Clone() }

// Infos returns the informational annotations in insertion order.
func (g *Graph) Infos() []Info { return slices.Clone(g.infos) }

// WithInfo returns a copy of g with one more annotation.
func (g *Graph) WithInfo(key, value string) *Graph {
	cp := *g
	cp.infos = append(slices.Clone(g.infos), Info{Key: key, Value: value})
	return &cp
}

// WithName returns a copy of g with a different name.
func (g *Graph) WithName(name string) *Graph {
	cp := *g
	cp.name = errors.SanitizeName(name)
	return &cp
}

// Validate checks the structural invariants of g: well-formed defines,
// symmetric adjacency, loops adjacent only to stems at a resolvable
// corner, per-kind degree, every position covered exactly once and stems
// consistent with the pair table.
func (g *Graph) Validate() error {
	cover := make([]int, g.n+1)
	for i, nd := range g.nodes {
		if err := g.validateDefine(i); err != nil {
			return err
		}
		for k := 0; k+1 < len(nd.define); k += 2 {
			for p := nd.define[k]; p <= nd.define[k+1]; p++ {
				cover[p]++
			}
		}
		for j := range nd.edges {
			if j < 0 || j >= len(g.nodes) {
				return errors.Integrity("%s has an edge to unknown element %d", g.label(i), j)
			}
			if _, ok := g.nodes[j].edges[i]; !ok {
				return errors.Integrity("edge %s-%s is not symmetric", g.label(i), g.label(j))
			}
			if nd.stem() == g.nodes[j].stem() {
				return errors.Integrity("edge %s-%s does not join a stem and a loop", g.label(i), g.label(j))
			}
			if nd.stem() {
				if _, _, err := g.sidesPlus(i, j); err != nil {
					return err
				}
			}
		}
		if err := g.validateDegree(i); err != nil {
			return err
		}
	}
	for p := 1; p <= g.n; p++ {
		if cover[p] != 1 {
			return errors.Integrity("position %d is covered by %d elements", p, cover[p])
		}
	}
	return g.validatePairs()
}

func (g *Graph) validateDefine(i int) error {
	d := g.nodes[i].define
	if g.nodes[i].stem() {
		if len(d) != 4 || d[0] > d[1] || d[1] >= d[2] || d[2] > d[3] || d[1]-d[0] != d[3]-d[2] {
			return errors.Integrity("stem %s has malformed define %v", g.label(i), d)
		}
		if d[0] < 1 || d[3] > g.n {
			return errors.Integrity("stem %s define %v outside 1..%d", g.label(i), d, g.n)
		}
		return nil
	}
	if len(d)%2 != 0 || len(d) > 4 {
		return errors.Integrity("%s has malformed define %v", g.label(i), d)
	}
	for k := 0; k+1 < len(d); k += 2 {
		if d[k] > d[k+1] || d[k] < 1 || d[k+1] > g.n || (k > 0 && d[k] <= d[k-1]) {
			return errors.Integrity("%s has malformed define %v", g.label(i), d)
		}
	}
	return nil
}

func (g *Graph) validateDegree(i int) error {
	nd := g.nodes[i]
	deg := len(nd.edges)
	var ok bool
	switch nd.kind {
	case Stem:
		ok = deg <= 4
	case Hairpin:
		ok = deg == 1
	case Interior, Multiloop:
		ok = deg == 2
	case FivePrime, ThreePrime:
		ok = deg <= 1
	}
	if !ok {
		return errors.Integrity("%s has %d neighbours", g.label(i), deg)
	}
	return nil
}

func (g *Graph) validatePairs() error {
	if err := g.table.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeGraphIntegrity, err, "pair table")
	}
	paired := 0
	for i, nd := range g.nodes {
		if !nd.stem() {
			continue
		}
		d := nd.define
		for k := 0; k <= d[1]-d[0]; k++ {
			x, y := d[0]+k, d[3]-k
			if g.table[x] != y || g.table[y] != x {
				return errors.Integrity("stem %s pairs %d-%d but the pair table has %d-%d", g.label(i), x, y, x, g.table[x])
			}
			paired += 2
		}
	}
	if want := 2 * len(g.table.Pairs()); paired != want {
		return errors.Integrity("stems cover %d paired positions, pair table has %d", paired, want)
	}
	return nil
}

// Without rebuilds the graph with the given base pairs removed.
func (g *Graph) Without(remove []pairs.Pair) (*Graph, error) {
	t := g.table.Without(remove)
	seq, err := sequence.New(g.seq.Residues(), g.seq.Breaks())
	if err != nil {
		return nil, err
	}
	out, err := build(t, seq, g.name)
	if err != nil {
		return nil, err
	}
	out.infos = slices.Clone(g.infos)
	return out, nil
}

// DissolveLengthOneStems removes every stem of a single base pair,
// repeating until the rebuilt graph has none.
func (g *Graph) DissolveLengthOneStems() (*Graph, error) {
	cur := g
	for range g.n + 1 {
		var remove []pairs.Pair
		for _, nd := range cur.nodes {
			if nd.stem() && nd.define[0] == nd.define[1] {
				remove = append(remove, pairs.Pair{I: nd.define[0], J: nd.define[3]})
			}
		}
		if len(remove) == 0 {
			return cur, nil
		}
		next, err := cur.Without(remove)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return nil, errors.Integrity("dissolving length-one stems did not converge")
}

// RemovePseudoknots asks n for a nested subset of the base pairs and
// rebuilds the graph without the rest. It returns the new graph and the
// removed pairs.
func (g *Graph) RemovePseudoknots(n pairs.Nester) (*Graph, []pairs.Pair, error) {
	if n == nil {
		n = pairs.GreedyNester{}
	}
	_, removed := n.Nest(g.table.Pairs())
	if len(removed) == 0 {
		return g, nil, nil
	}
	out, err := g.Without(removed)
	if err != nil {
		return nil, nil, err
	}
	return out, removed, nil
}
