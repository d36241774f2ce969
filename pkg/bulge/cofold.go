package bulge

import (
	"maps"
	"slices"

	"github.com/matzehuels/rnagraph/pkg/errors"
)

// splitAt cuts the backbone between sp and sp+1 in a graph that was built
// as one continuous chain. Whatever element straddles the cut is split or
// relabelled so that the cut ends one chain with a three-prime element (or
// a stem) and starts the next with a five-prime element (or a stem).
func (b *builder) splitAt(sp int) error {
	if sp < 1 || sp >= b.n {
		return errors.Structure("break %d is not interior to a structure of length %d", sp, b.n)
	}
	if err := b.splitElements(sp); err != nil {
		return err
	}
	idx, _ := slices.BinarySearch(b.breaks, sp)
	b.breaks = slices.Insert(b.breaks, idx, sp)
	return nil
}

func (b *builder) splitElements(sp int) error {
	if i, forward, ok := b.interiorAcross(sp); ok {
		return b.splitInterior(i, sp, forward)
	}

	left, err := b.elementAt(sp)
	if err != nil {
		return err
	}
	right, err := b.elementAt(sp + 1)
	if err != nil {
		return err
	}
	ln, rn := b.nodes[left], b.nodes[right]

	if overhang(ln.kind) || overhang(rn.kind) {
		return errors.Structure("chain around break %d has no base pair", sp)
	}
	if left == right {
		switch ln.kind {
		case Stem:
			return b.splitStem(left, sp)
		case Hairpin, Multiloop:
			return b.splitLoop(left, sp)
		}
		return errors.Integrity("cannot split %s at break %d", b.label(left), sp)
	}

	switch {
	case ln.kind == Hairpin || ln.kind == Multiloop:
		if ln.kind == Multiloop {
			b.unlink(left, right)
		}
		ln.kind = ThreePrime
	case rn.kind == Hairpin || rn.kind == Multiloop:
		if rn.kind == Multiloop {
			b.unlink(right, left)
		}
		rn.kind = FivePrime
	case ln.stem() && rn.stem():
		return b.dropZeroLength(left, right, sp)
	default:
		return errors.Integrity("unexpected elements %s and %s around break %d", b.label(left), b.label(right), sp)
	}
	return nil
}

func overhang(k Kind) bool { return k == FivePrime || k == ThreePrime }

// interiorAcross finds an interior loop one of whose strands contains the
// cut, counting the cut just after the outer stem's corner.
func (b *builder) interiorAcross(sp int) (int, bool, bool) {
	for _, i := range b.live() {
		if b.nodes[i].kind != Interior {
			continue
		}
		stems := b.stemsOf(i)
		if len(stems) != 2 {
			continue
		}
		fwd, back := interiorStrands(b.nodes[stems[0]], b.nodes[stems[1]])
		if sp >= fwd[0]-1 && sp <= fwd[1] {
			return i, true, true
		}
		if sp >= back[0]-1 && sp <= back[1] {
			return i, false, true
		}
	}
	return 0, false, false
}

// splitInterior turns an interior loop cut on one strand into a
// three-prime and a five-prime element on that strand (each only if it
// holds nucleotides) and a multiloop on the other strand.
func (b *builder) splitInterior(i, sp int, forward bool) error {
	stems := b.stemsOf(i)
	outer, inner := stems[0], stems[1]
	fwd, back := interiorStrands(b.nodes[outer], b.nodes[inner])

	cut, whole := back, fwd
	before, after := inner, outer
	if forward {
		cut, whole = fwd, back
		before, after = outer, inner
	}
	b.kill(i)

	if cut[0] <= sp {
		t := b.add(&node{kind: ThreePrime, labeled: true, define: []int{cut[0], sp}})
		b.link(t, before)
	}
	if sp+1 <= cut[1] {
		f := b.add(&node{kind: FivePrime, labeled: true, define: []int{sp + 1, cut[1]}})
		b.link(f, after)
	}
	m := &node{kind: Multiloop, labeled: true}
	if whole[0] <= whole[1] {
		m.define = []int{whole[0], whole[1]}
	} else {
		m.zl = [2]int{whole[1], whole[0]}
	}
	mi := b.add(m)
	b.link(mi, outer)
	b.link(mi, inner)
	return nil
}

// splitStem cuts a stem into an outer and an inner stem joined by a
// zero-length multiloop on the strand opposite the cut. Neighbours at
// corners 0 and 3 stay with the outer stem, the rest move to the inner one.
func (b *builder) splitStem(s, sp int) error {
	d := b.nodes[s].define
	if sp == d[1] {
		// The cut falls between the two strands; no element spans it.
		return nil
	}
	ps, ps1 := b.table[sp], b.table[sp+1]
	var outerDef, innerDef []int
	if sp < d[1] {
		outerDef = []int{d[0], sp, ps, d[3]}
		innerDef = []int{sp + 1, d[1], d[2], ps1}
	} else {
		outerDef = []int{d[0], ps1, sp + 1, d[3]}
		innerDef = []int{ps, d[1], d[2], sp}
	}

	corners := make(map[int]int)
	for _, n := range b.neighbors(s) {
		k, _, err := b.sidesPlus(s, n)
		if err != nil {
			return err
		}
		corners[n] = k
	}
	b.kill(s)

	outer := b.add(&node{kind: Stem, labeled: true, define: outerDef})
	inner := b.add(&node{kind: Stem, labeled: true, define: innerDef})
	for _, n := range slices.Sorted(maps.Keys(corners)) {
		if k := corners[n]; k == 0 || k == 3 {
			b.link(outer, n)
		} else {
			b.link(inner, n)
		}
	}
	m := b.add(&node{kind: Multiloop, labeled: true, zl: [2]int{ps1, ps}})
	b.link(m, outer)
	b.link(m, inner)
	return nil
}

// splitLoop cuts a single-strand hairpin or multiloop into a three-prime
// element up to the cut and a five-prime element after it.
func (b *builder) splitLoop(i, sp int) error {
	nd := b.nodes[i]
	if len(nd.define) != 2 {
		return errors.Integrity("%s has %d strands, want 1", b.label(i), len(nd.define)/2)
	}
	from, to := nd.define[0], nd.define[1]

	var before, after int
	stems := b.stemsOf(i)
	switch {
	case nd.kind == Hairpin && len(stems) == 1:
		before, after = stems[0], stems[0]
	case nd.kind == Multiloop && len(stems) == 2:
		for _, s := range stems {
			_, end, err := b.sidesPlus(s, i)
			if err != nil {
				return err
			}
			if end == 0 {
				before = s
			} else {
				after = s
			}
		}
	default:
		return errors.Integrity("%s has %d stems", b.label(i), len(stems))
	}
	b.kill(i)

	t := b.add(&node{kind: ThreePrime, labeled: true, define: []int{from, sp}})
	b.link(t, before)
	f := b.add(&node{kind: FivePrime, labeled: true, define: []int{sp + 1, to}})
	b.link(f, after)
	return nil
}

// dropZeroLength removes the zero-length multiloop that joins two stems
// across the cut.
func (b *builder) dropZeroLength(left, right, sp int) error {
	for _, z := range b.neighbors(left) {
		nd := b.nodes[z]
		if !nd.zero() || nd.zl != [2]int{sp, sp + 1} {
			continue
		}
		if _, ok := nd.edges[right]; ok {
			b.kill(z)
			return nil
		}
	}
	return errors.Integrity("no zero-length element between %s and %s at break %d", b.label(left), b.label(right), sp)
}
