// Package nucgraph provides the nucleotide-level view of a structure: an
// undirected graph whose nodes are sequence positions and whose edges are
// backbone links and base pairs.
//
// The element graph in package bulge is coarse; distances between elements
// and the connectivity of multi-chain inputs are answered here instead:
//
//	g := nucgraph.FromTable(table, breaks)
//	d := g.Distances(1)   // hop counts from position 1
//	cs := g.Components()  // groups of mutually reachable positions
//
// The graph is backed by gonum's simple.UndirectedGraph; shortest paths and
// components are computed by gonum's path and topo packages.
package nucgraph

import (
	"cmp"
	"math"
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/matzehuels/rnagraph/pkg/errors"
	"github.com/matzehuels/rnagraph/pkg/pairs"
)

// Unreachable is the distance reported between positions with no path.
const Unreachable = -1

// Graph is an undirected simple graph over positions 1..n. Node IDs are the
// positions themselves.
type Graph struct {
	n int
	g *simple.UndirectedGraph
}

// New returns a graph with n isolated positions.
func New(n int) *Graph {
	g := simple.NewUndirectedGraph()
	for i := 1; i <= n; i++ {
		g.AddNode(simple.Node(i))
	}
	return &Graph{n: n, g: g}
}

// FromTable builds the nucleotide graph of a pair table: backbone edges
// between i and i+1 except after a break, plus one edge per base pair.
func FromTable(t pairs.Table, breaks []int) *Graph {
	n := t.Len()
	g := New(n)
	for i := 1; i < n; i++ {
		if _, brk := slices.BinarySearch(breaks, i); !brk {
			g.link(i, i+1)
		}
	}
	for _, p := range t.Pairs() {
		g.link(p.I, p.J)
	}
	return g
}

// Len returns the number of positions.
func (g *Graph) Len() int { return g.n }

// AddEdge links u and v. Self loops and positions outside 1..Len are
// rejected; adding an existing edge is a no-op.
func (g *Graph) AddEdge(u, v int) error {
	if u < 1 || v < 1 || u > g.n || v > g.n {
		return errors.NotFound("edge %d-%d outside 1..%d", u, v, g.n)
	}
	if u == v {
		return errors.New(errors.ErrCodeInvalidInput, "self loop at %d", u)
	}
	g.link(u, v)
	return nil
}

func (g *Graph) link(u, v int) {
	if g.g.HasEdgeBetween(int64(u), int64(v)) {
		return
	}
	g.g.SetEdge(simple.Edge{F: simple.Node(u), T: simple.Node(v)})
}

func (g *Graph) inRange(v int) bool { return v >= 1 && v <= g.n }

// HasEdge reports whether u and v are adjacent.
func (g *Graph) HasEdge(u, v int) bool {
	if !g.inRange(u) || !g.inRange(v) {
		return false
	}
	return g.g.HasEdgeBetween(int64(u), int64(v))
}

// Neighbors returns the positions adjacent to v in ascending order.
func (g *Graph) Neighbors(v int) []int {
	if !g.inRange(v) {
		return nil
	}
	return positions(graph.NodesOf(g.g.From(int64(v))))
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	return len(graph.EdgesOf(g.g.Edges()))
}

// Distances returns shortest-path hop counts from src to every position.
// Index 0 is unused; unreachable positions hold [Unreachable].
func (g *Graph) Distances(src int) []int {
	dist := make([]int, g.n+1)
	for i := range dist {
		dist[i] = Unreachable
	}
	if !g.inRange(src) {
		return dist
	}
	sh := path.DijkstraFrom(simple.Node(src), g.g)
	for v := 1; v <= g.n; v++ {
		dist[v] = hops(sh.WeightTo(int64(v)))
	}
	return dist
}

// AllPairs returns the distance matrix; row i is Distances(i).
func (g *Graph) AllPairs() [][]int {
	out := make([][]int, g.n+1)
	out[0] = make([]int, g.n+1)
	for i := range out[0] {
		out[0][i] = Unreachable
	}
	all := path.DijkstraAllPaths(g.g)
	for u := 1; u <= g.n; u++ {
		row := make([]int, g.n+1)
		row[0] = Unreachable
		for v := 1; v <= g.n; v++ {
			row[v] = hops(all.Weight(int64(u), int64(v)))
		}
		out[u] = row
	}
	return out
}

// Components returns the connected components, each sorted ascending and
// ordered by their smallest position.
func (g *Graph) Components() [][]int {
	var out [][]int
	for _, cc := range topo.ConnectedComponents(g.g) {
		out = append(out, positions(cc))
	}
	slices.SortFunc(out, func(a, b []int) int { return cmp.Compare(a[0], b[0]) })
	return out
}

// Connected reports whether every position is reachable from position 1.
func (g *Graph) Connected() bool {
	return len(g.Components()) <= 1
}

func hops(w float64) int {
	if math.IsInf(w, 1) {
		return Unreachable
	}
	return int(w)
}

func positions(nodes []graph.Node) []int {
	out := make([]int, len(nodes))
	for i, n := range nodes {
		out[i] = int(n.ID())
	}
	slices.Sort(out)
	return out
}
