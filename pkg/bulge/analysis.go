package bulge

import (
	"cmp"
	"math"
	"slices"
	"sync"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/matzehuels/rnagraph/pkg/errors"
	"github.com/matzehuels/rnagraph/pkg/nucgraph"
)

// BuildStep is one step of the build order: Loop is placed after Prev and
// leads to Next.
type BuildStep struct {
	Prev, Loop, Next ElementID
}

// Analysis holds values derived from one immutable graph: the minimum
// spanning forest of the element graph, the build order along it and the
// nucleotide distance matrix. Distances are computed on first use. An
// Analysis is safe for concurrent use.
type Analysis struct {
	g     *Graph
	inMST []bool
	order []BuildStep

	distOnce sync.Once
	dist     [][]int
}

// Analyze computes the spanning forest and build order of g.
func Analyze(g *Graph) *Analysis {
	a := &Analysis{g: g}
	a.inMST = g.spanningForest()
	a.order = g.traverse(a.inMST)
	return a
}

// Graph returns the analysed graph.
func (a *Analysis) Graph() *Graph { return a.g }

// MST returns the elements of the minimum spanning forest in ID order.
// Stems, hairpins and overhangs are always included; interior loops and
// multiloop segments are included when they join two stems not yet
// connected, interior loops first and smaller loops before larger ones.
func (a *Analysis) MST() []ElementID {
	var out []ElementID
	for i, in := range a.inMST {
		if in {
			out = append(out, ElementID(i))
		}
	}
	return out
}

// InMST reports whether id belongs to the spanning forest.
func (a *Analysis) InMST(id ElementID) bool {
	return a.g.valid(id) && a.inMST[id]
}

// BuildOrder returns the loop placements of a breadth-first walk of the
// spanning forest, starting at the lowest stem and always expanding the
// smallest frontier element first.
func (a *Analysis) BuildOrder() []BuildStep { return slices.Clone(a.order) }

func minDim(g *Graph, i int) int {
	x, y := g.Dimensions(ElementID(i))
	return min(x, y)
}

// spanningForest runs Kruskal over a stem graph whose edges are the loops
// joining two stems. Edge weights are the loops' rank in priority order, so
// the forest is unique. Of several loops joining the same stems only the
// highest ranked becomes an edge; the others could never be chosen.
func (g *Graph) spanningForest() []bool {
	in := make([]bool, len(g.nodes))
	stems := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	var loops []int
	for i, nd := range g.nodes {
		switch nd.kind {
		case Interior, Multiloop:
			loops = append(loops, i)
		case Stem:
			in[i] = true
			stems.AddNode(simple.Node(i))
		default:
			in[i] = true
		}
	}
	slices.SortFunc(loops, func(x, y int) int {
		return cmp.Or(
			cmp.Compare(g.nodes[x].kind, g.nodes[y].kind),
			cmp.Compare(minDim(g, x), minDim(g, y)),
			cmp.Compare(x, y),
		)
	})

	loopOf := make(map[[2]int]int)
	for rank, l := range loops {
		ss := g.stemsOf(l)
		if len(ss) != 2 || ss[0] == ss[1] {
			continue
		}
		key := [2]int{min(ss[0], ss[1]), max(ss[0], ss[1])}
		if _, dup := loopOf[key]; dup {
			continue
		}
		loopOf[key] = l
		stems.SetWeightedEdge(stems.NewWeightedEdge(simple.Node(key[0]), simple.Node(key[1]), float64(rank)))
	}

	forest := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	path.Kruskal(forest, stems)
	for key, l := range loopOf {
		if forest.HasEdgeBetween(int64(key[0]), int64(key[1])) {
			in[l] = true
		}
	}
	return in
}

func (g *Graph) traverse(inMST []bool) []BuildStep {
	stems := g.ElementsOf(Stem)
	if len(stems) == 0 {
		return nil
	}
	type visit struct{ cur, prev int }
	visited := make([]bool, len(g.nodes))
	frontier := []visit{{cur: int(stems[0]), prev: -1}}
	var order []BuildStep
	for len(frontier) > 0 {
		slices.SortStableFunc(frontier, func(x, y visit) int {
			return cmp.Compare(minDim(g, x.cur), minDim(g, y.cur))
		})
		v := frontier[0]
		frontier = frontier[1:]
		if visited[v.cur] {
			continue
		}
		visited[v.cur] = true

		nd := g.nodes[v.cur]
		if (nd.kind == Interior || nd.kind == Multiloop) && v.prev >= 0 {
			for _, s := range g.stemsOf(v.cur) {
				if s != v.prev && !visited[s] {
					order = append(order, BuildStep{Prev: ElementID(v.prev), Loop: ElementID(v.cur), Next: ElementID(s)})
				}
			}
		}
		for _, n := range g.connections(v.cur) {
			if inMST[n] && !visited[n] {
				frontier = append(frontier, visit{cur: n, prev: v.cur})
			}
		}
	}
	return order
}

func (a *Analysis) distances() [][]int {
	a.distOnce.Do(func() {
		a.dist = a.g.NucleotideGraph().AllPairs()
	})
	return a.dist
}

// NucleotideGraph returns the position-level graph of g: backbone links
// (except across breaks) and base pairs.
func (g *Graph) NucleotideGraph() *nucgraph.Graph {
	return nucgraph.FromTable(g.table, g.breaks)
}

// anchorResidues returns the positions an element occupies, or the two it
// sits between when it has zero length.
func (g *Graph) anchorResidues(id ElementID) []int {
	if g.nodes[id].zero() {
		zl := g.nodes[id].zl
		return []int{zl[0], zl[1]}
	}
	return g.Residues(id)
}

// MinMaxBPDistance returns the shortest and longest shortest-path distance,
// in nucleotide hops, between any residue of e1 and any residue of e2.
// Both are [nucgraph.Unreachable] if no residue of e1 reaches e2.
func (a *Analysis) MinMaxBPDistance(e1, e2 ElementID) (int, int, error) {
	if !a.g.valid(e1) || !a.g.valid(e2) {
		return 0, 0, errors.NotFound("element %d or %d does not exist", e1, e2)
	}
	dist := a.distances()
	lo, hi := nucgraph.Unreachable, nucgraph.Unreachable
	for _, p := range a.g.anchorResidues(e1) {
		for _, q := range a.g.anchorResidues(e2) {
			d := dist[p][q]
			if d == nucgraph.Unreachable {
				continue
			}
			if lo == nucgraph.Unreachable || d < lo {
				lo = d
			}
			if d > hi {
				hi = d
			}
		}
	}
	return lo, hi, nil
}
