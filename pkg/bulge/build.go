package bulge

import (
	"fmt"
	"maps"
	"slices"

	"github.com/matzehuels/rnagraph/pkg/errors"
	"github.com/matzehuels/rnagraph/pkg/nucgraph"
	"github.com/matzehuels/rnagraph/pkg/pairs"
	"github.com/matzehuels/rnagraph/pkg/sequence"
)

// Options configure graph construction.
type Options struct {
	// Name is stored with the graph. Empty or unprintable names are
	// sanitized.
	Name string
	// Sequence supplies the residues, optionally with '&' at chain breaks.
	// When empty every residue is 'N'.
	Sequence string
}

// FromDotBracket builds the element graph of a dot-bracket string. Chains
// separated by '&' must be joined by at least one base pair.
func FromDotBracket(db string, opts Options) (*Graph, error) {
	t, breaks, err := pairs.ParseDotBracket(db)
	if err != nil {
		return nil, err
	}
	return FromPairTable(t, breaks, opts)
}

// FromTuples builds the element graph from a (position, partner) list.
func FromTuples(ts []pairs.Tuple, breaks []int, opts Options) (*Graph, error) {
	t, err := pairs.FromTuples(ts)
	if err != nil {
		return nil, err
	}
	return FromPairTable(t, breaks, opts)
}

// FromPairs builds the element graph of a structure of length n.
func FromPairs(n int, ps []pairs.Pair, breaks []int, opts Options) (*Graph, error) {
	t, err := pairs.FromPairs(n, ps)
	if err != nil {
		return nil, err
	}
	return FromPairTable(t, breaks, opts)
}

// FromPairTable builds the element graph of a pair table. Every chain must
// be reachable from every other through base pairs; use
// [FromPairTableComponents] to build one graph per connected group instead.
func FromPairTable(t pairs.Table, breaks []int, opts Options) (*Graph, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	seq, err := resolveSequence(t.Len(), breaks, opts.Sequence)
	if err != nil {
		return nil, err
	}
	if groups := chainGroups(t, seq); len(groups) > 1 {
		return nil, errors.Structure("%d chains form %d groups with no base pair between them", seq.ChainCount(), len(groups))
	}
	return build(t, seq, errors.SanitizeName(opts.Name))
}

// FromDotBracketComponents builds one graph per group of chains connected
// by base pairs. A structure whose chains are all connected yields a single
// graph named opts.Name; otherwise graphs are named "<name>_1", "<name>_2"
// and so on in order of their first chain.
func FromDotBracketComponents(db string, opts Options) ([]*Graph, error) {
	t, breaks, err := pairs.ParseDotBracket(db)
	if err != nil {
		return nil, err
	}
	return FromPairTableComponents(t, breaks, opts)
}

// FromPairTableComponents is the pair-table form of
// [FromDotBracketComponents].
func FromPairTableComponents(t pairs.Table, breaks []int, opts Options) ([]*Graph, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	seq, err := resolveSequence(t.Len(), breaks, opts.Sequence)
	if err != nil {
		return nil, err
	}
	name := errors.SanitizeName(opts.Name)
	groups := chainGroups(t, seq)
	if len(groups) <= 1 {
		g, err := build(t, seq, name)
		if err != nil {
			return nil, err
		}
		return []*Graph{g}, nil
	}

	out := make([]*Graph, 0, len(groups))
	for gi, chains := range groups {
		sub, mapping, err := seq.Sub(chains)
		if err != nil {
			return nil, err
		}
		inverse := make(map[int]int, len(mapping))
		for np, op := range mapping[1:] {
			inverse[op] = np + 1
		}
		st := pairs.NewTable(sub.Len())
		for np := 1; np <= sub.Len(); np++ {
			if p := t[mapping[np]]; p != pairs.Unpaired {
				st[np] = inverse[p]
			}
		}
		g, err := build(st, sub, fmt.Sprintf("%s_%d", name, gi+1))
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

func resolveSequence(n int, breaks []int, residues string) (*sequence.Sequence, error) {
	if residues == "" {
		return sequence.Unknown(n, breaks)
	}
	seq, err := sequence.Parse(residues)
	if err != nil {
		return nil, err
	}
	if seq.Len() != n {
		return nil, errors.Structure("sequence length %d does not match structure length %d", seq.Len(), n)
	}
	sb := seq.Breaks()
	switch {
	case len(breaks) == 0:
		return seq, nil
	case len(sb) == 0:
		return sequence.New(seq.Residues(), breaks)
	case !slices.Equal(sb, breaks):
		return nil, errors.Structure("sequence breaks %v differ from structure breaks %v", sb, breaks)
	}
	return seq, nil
}

// chainGroups returns the chains of each connected component of the
// nucleotide graph, each group ascending and ordered by its first chain.
func chainGroups(t pairs.Table, seq *sequence.Sequence) [][]int {
	comps := nucgraph.FromTable(t, seq.Breaks()).Components()
	out := make([][]int, 0, len(comps))
	for _, comp := range comps {
		var chains []int
		for _, p := range comp {
			c, _ := seq.ChainOf(p)
			if !slices.Contains(chains, c) {
				chains = append(chains, c)
			}
		}
		slices.Sort(chains)
		out = append(out, chains)
	}
	return out
}

// builder carries the arena through the construction pipeline.
type builder struct {
	arena
	table pairs.Table
}

// build runs the fixed construction pipeline on a validated table.
func build(t pairs.Table, seq *sequence.Sequence, name string) (*Graph, error) {
	b := &builder{arena: arena{n: t.Len()}, table: t}
	stems, bulges := extractRegions(t.Tuples())
	b.addRegions(stems, bulges)
	b.linkBulges(len(stems))
	b.linkStems(len(stems))
	if err := b.collapse(); err != nil {
		return nil, err
	}
	b.sortDefines()
	b.relabel()
	for _, sp := range seq.Breaks() {
		if err := b.splitAt(sp); err != nil {
			return nil, err
		}
	}
	if err := b.checkConnected(); err != nil {
		return nil, err
	}
	b.renumber()
	return freeze(&b.arena, t, seq, name, nil)
}

func (b *builder) addRegions(stems []stemRegion, bulges []bulgeRegion) {
	for _, s := range stems {
		b.add(&node{kind: Stem, labeled: true, define: []int{s[0], s[1], s[2], s[3]}})
	}
	for _, r := range bulges {
		b.add(&node{kind: Multiloop, define: []int{r[0], r[1]}})
	}
}

// linkBulges connects every stem to every unpaired run that starts or ends
// next to one of its corners.
func (b *builder) linkBulges(nStems int) {
	for s := 0; s < nStems; s++ {
		for r := nStems; r < len(b.nodes); r++ {
			if anyDifferenceOfOne(b.nodes[s].define, b.nodes[r].define) {
				b.link(s, r)
			}
		}
	}
}

func anyDifferenceOfOne(xs, ys []int) bool {
	for _, x := range xs {
		for _, y := range ys {
			if x-y == 1 || y-x == 1 {
				return true
			}
		}
	}
	return false
}

// linkStems inserts a zero-length element wherever two stem corners are
// neighbours on the backbone, and a zero-length hairpin wherever the inner
// corners of one stem touch.
func (b *builder) linkStems(nStems int) {
	found := make(map[int][2]int)
	for i := 0; i < nStems; i++ {
		for j := i + 1; j < nStems; j++ {
			for _, x := range b.nodes[i].define {
				for _, y := range b.nodes[j].define {
					if x-y == 1 || y-x == 1 {
						found[min(x, y)] = [2]int{i, j}
					}
				}
			}
		}
	}
	for _, p := range slices.Sorted(maps.Keys(found)) {
		st := found[p]
		z := b.add(&node{kind: Multiloop, zl: [2]int{p, p + 1}})
		b.link(z, st[0])
		b.link(z, st[1])
	}
	for s := 0; s < nStems; s++ {
		d := b.nodes[s].define
		if d[1]+1 == d[2] {
			z := b.add(&node{kind: Multiloop, zl: [2]int{d[1], d[2]}})
			b.link(z, s)
		}
	}
}

// collapse merges pairs of unpaired runs that are the two strands of one
// interior loop until no such pair remains.
func (b *builder) collapse() error {
	limit := len(b.nodes) + 1
	for range limit {
		merged, err := b.collapseOnce()
		if err != nil {
			return err
		}
		if !merged {
			return nil
		}
	}
	return errors.Integrity("collapse did not converge after %d merges", limit)
}

func (b *builder) collapseOnce() (bool, error) {
	var loops []int
	for _, i := range b.live() {
		if !b.nodes[i].stem() {
			loops = append(loops, i)
		}
	}
	for xi, x := range loops {
		for _, y := range loops[xi+1:] {
			ok, err := b.interiorHalves(x, y)
			if err != nil {
				return false, err
			}
			if ok {
				b.merge(x, y)
				return true, nil
			}
		}
	}
	return false, nil
}

// interiorHalves reports whether x and y join the same two stems on
// opposite strands: the outer stem touches them at corners {1, 2} and the
// inner stem at corners {0, 3}.
func (b *builder) interiorHalves(x, y int) (bool, error) {
	nx, ny := b.nodes[x], b.nodes[y]
	if len(nx.edges) != 2 || !maps.Equal(nx.edges, ny.edges) {
		return false, nil
	}
	conns := b.connections(x)
	want := [2][2]int{{1, 2}, {0, 3}}
	for ci, s := range conns {
		if !b.nodes[s].stem() {
			return false, nil
		}
		kx, _, err := b.sidesPlus(s, x)
		if err != nil {
			return false, err
		}
		ky, _, err := b.sidesPlus(s, y)
		if err != nil {
			return false, err
		}
		if [2]int{min(kx, ky), max(kx, ky)} != want[ci] {
			return false, nil
		}
	}
	return true, nil
}

func (b *builder) merge(x, y int) {
	nx, ny := b.nodes[x], b.nodes[y]
	nd := &node{
		kind:   Interior,
		define: append(slices.Clone(nx.define), ny.define...),
		weight: nx.weight + ny.weight,
		zl:     nx.zl,
	}
	if nx.zero() {
		nd.zl = ny.zl
	}
	stems := slices.Collect(maps.Keys(nx.edges))
	m := b.add(nd)
	for _, s := range stems {
		b.link(m, s)
	}
	b.kill(x)
	b.kill(y)
}

// sortDefines puts the lower strand of every two-strand element first.
func (b *builder) sortDefines() {
	for _, i := range b.live() {
		d := b.nodes[i].define
		if !b.nodes[i].stem() && len(d) == 4 && d[0] > d[2] {
			d[0], d[1], d[2], d[3] = d[2], d[3], d[0], d[1]
		}
	}
}

// checkConnected fails when the element graph falls apart, which happens
// when chains share no base pair.
func (b *builder) checkConnected() error {
	live := b.live()
	if len(live) == 0 {
		return errors.Structure("structure has no elements")
	}
	seen := map[int]bool{live[0]: true}
	stack := []int{live[0]}
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for v := range b.nodes[u].edges {
			if !seen[v] {
				seen[v] = true
				stack = append(stack, v)
			}
		}
	}
	if len(seen) != len(live) {
		return errors.Structure("element graph is disconnected: %d of %d elements reachable", len(seen), len(live))
	}
	return nil
}
