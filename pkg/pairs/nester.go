package pairs

import (
	"cmp"
	"slices"
)

// Nester removes pseudoknots from a pair list. Implementations return the
// nested subset that is kept and the pairs that were removed; together they
// partition the input.
type Nester interface {
	Nest(ps []Pair) (kept, removed []Pair)
}

// NesterFunc adapts a function to the [Nester] interface.
type NesterFunc func(ps []Pair) (kept, removed []Pair)

// Nest calls f.
func (f NesterFunc) Nest(ps []Pair) (kept, removed []Pair) { return f(ps) }

// GreedyNester removes whole helices until no crossings remain. In every
// round the helix that crosses the most other helices is dropped; ties go to
// the helix with fewer pairs and then to the one that opens later.
type GreedyNester struct{}

type helix struct {
	pairs []Pair
	dead  bool
}

func (h *helix) outer() Pair { return h.pairs[0] }

// crosses reports whether any pair of h crosses any pair of o.
func (h *helix) crosses(o *helix) bool {
	for _, p := range h.pairs {
		for _, q := range o.pairs {
			if p.Crosses(q) {
				return true
			}
		}
	}
	return false
}

// Nest implements [Nester].
func (GreedyNester) Nest(ps []Pair) (kept, removed []Pair) {
	sorted := slices.Clone(ps)
	slices.SortFunc(sorted, func(a, b Pair) int {
		return cmp.Or(cmp.Compare(a.I, b.I), cmp.Compare(a.J, b.J))
	})
	sorted = slices.Compact(sorted)

	helices := groupHelices(sorted)
	for {
		worst, worstCount := -1, 0
		for i, h := range helices {
			if h.dead {
				continue
			}
			count := 0
			for j, o := range helices {
				if i != j && !o.dead && h.crosses(o) {
					count++
				}
			}
			if count == 0 {
				continue
			}
			if worst < 0 || count > worstCount ||
				(count == worstCount && len(h.pairs) < len(helices[worst].pairs)) ||
				(count == worstCount && len(h.pairs) == len(helices[worst].pairs) && h.outer().I > helices[worst].outer().I) {
				worst, worstCount = i, count
			}
		}
		if worst < 0 {
			break
		}
		helices[worst].dead = true
	}

	for _, h := range helices {
		if h.dead {
			removed = append(removed, h.pairs...)
		} else {
			kept = append(kept, h.pairs...)
		}
	}
	byI := func(a, b Pair) int { return cmp.Compare(a.I, b.I) }
	slices.SortFunc(kept, byI)
	slices.SortFunc(removed, byI)
	return kept, removed
}

// groupHelices splits pairs sorted by I into runs of stacked pairs
// (i,j),(i+1,j-1),...
func groupHelices(ps []Pair) []*helix {
	var out []*helix
	var cur *helix
	for _, p := range ps {
		if cur != nil {
			last := cur.pairs[len(cur.pairs)-1]
			if p.I == last.I+1 && p.J == last.J-1 {
				cur.pairs = append(cur.pairs, p)
				continue
			}
		}
		cur = &helix{pairs: []Pair{p}}
		out = append(out, cur)
	}
	return out
}
