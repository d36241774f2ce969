package bulge

import (
	"cmp"
	"slices"
)

// relabel assigns a kind to every element that has none yet, drops
// zero-length hairpins and numbers the elements of each kind in canonical
// order. Elements that already carry a kind keep it, so relabelling a
// relabelled arena changes nothing.
func (a *arena) relabel() {
	for _, i := range a.live() {
		a.classify(i)
	}
	a.removeDegenerate()
	a.renumber()
}

func (a *arena) classify(i int) {
	nd := a.nodes[i]
	if nd.labeled {
		return
	}
	nd.labeled = true
	deg := len(nd.edges)
	if nd.zero() {
		switch {
		case deg == 1:
			nd.kind = Hairpin
		case nd.weight >= 2:
			nd.kind = Interior
		default:
			nd.kind = Multiloop
		}
		return
	}
	switch {
	case nd.weight >= 2:
		nd.kind = Interior
	case deg <= 1 && nd.define[0] == 1:
		nd.kind = FivePrime
	case deg <= 1 && nd.define[len(nd.define)-1] == a.n:
		nd.kind = ThreePrime
	case deg == 1:
		nd.kind = Hairpin
	default:
		nd.kind = Multiloop
	}
}

// removeDegenerate drops hairpins without nucleotides.
func (a *arena) removeDegenerate() {
	for _, i := range a.live() {
		if nd := a.nodes[i]; nd.kind == Hairpin && nd.zero() {
			a.kill(i)
		}
	}
}

// renumber numbers the live elements of every kind from 0 in canonical
// order.
func (a *arena) renumber() {
	byKind := make(map[Kind][]int)
	for _, i := range a.live() {
		k := a.nodes[i].kind
		byKind[k] = append(byKind[k], i)
	}
	for _, ids := range byKind {
		keys := make(map[int][]int, len(ids))
		for _, i := range ids {
			keys[i] = a.orderKey(i)
		}
		slices.SortFunc(ids, func(x, y int) int {
			return cmp.Or(slices.Compare(keys[x], keys[y]), cmp.Compare(x, y))
		})
		for n, i := range ids {
			a.nodes[i].num = n
		}
	}
}

// orderKey is the sort key within a kind: stems by first position, interior
// loops by their outer stem, everything else by flanked define.
func (a *arena) orderKey(i int) []int {
	nd := a.nodes[i]
	switch nd.kind {
	case Stem:
		return []int{nd.define[0]}
	case Interior:
		if stems := a.stemsOf(i); len(stems) > 0 {
			lo := a.nodes[stems[0]].define[0]
			for _, s := range stems[1:] {
				lo = min(lo, a.nodes[s].define[0])
			}
			return []int{lo}
		}
	}
	return a.defineA(i)
}
